package models

import "time"

// MaxStat is the cap shared by every statistic.
const MaxStat = 100

// Stats holds a user's five statistics, each within [0, MaxStat].
type Stats struct {
	ID          int64
	UserID      int64
	Knowledge   int
	Guts        int
	Proficiency int
	Kindness    int
	Charm       int
	UpdatedAt   time.Time
}

func (s *Stats) field(name StatName) *int {
	switch name {
	case StatKnowledge:
		return &s.Knowledge
	case StatGuts:
		return &s.Guts
	case StatProficiency:
		return &s.Proficiency
	case StatKindness:
		return &s.Kindness
	case StatCharm:
		return &s.Charm
	}
	return nil
}

// Get returns the value of name, or 0 for an unknown statistic.
func (s *Stats) Get(name StatName) int {
	if f := s.field(name); f != nil {
		return *f
	}
	return 0
}

// Increase adds amount to name, clamped to [0, MaxStat], and reports whether
// the stored value went up. A statistic at the cap stays put.
func (s *Stats) Increase(name StatName, amount int) bool {
	f := s.field(name)
	if f == nil {
		return false
	}
	current := *f
	next := ClampStat(current + amount)
	*f = next
	return next > current
}

// Total is the sum of all five statistics.
func (s *Stats) Total() int {
	return s.Knowledge + s.Guts + s.Proficiency + s.Kindness + s.Charm
}

// Percentage expresses name as a share of MaxStat.
func (s *Stats) Percentage(name StatName) float64 {
	return float64(s.Get(name)) / MaxStat * 100
}

func ClampStat(v int) int {
	switch {
	case v < 0:
		return 0
	case v > MaxStat:
		return MaxStat
	}
	return v
}
