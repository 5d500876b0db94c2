package models

import (
	"math"
	"time"
)

// MaxInfiltration is the percentage at which a palace is completed.
const MaxInfiltration = 100.0

// Palace is a long-running goal. Its infiltration percentage is derived from
// task completions, never set by the user.
type Palace struct {
	ID           int64
	UserID       int64
	Name         string
	Description  string
	BossName     string
	Infiltration float64
	Status       PalaceStatus
	Deadline     *time.Time
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

// UpdateInfiltration stores pct clamped to [0, 100]. Reaching 100 completes
// the palace; the return value reports that transition. Terminal palaces are
// left untouched.
func (p *Palace) UpdateInfiltration(pct float64, now time.Time) bool {
	if p.Status.Terminal() {
		return false
	}
	if math.IsNaN(pct) {
		pct = 0
	}
	p.Infiltration = math.Min(MaxInfiltration, math.Max(0, pct))
	if p.Infiltration >= MaxInfiltration {
		p.Complete(now)
		return true
	}
	return false
}

// Complete marks the palace completed at 100%.
func (p *Palace) Complete(now time.Time) {
	p.Status = PalaceCompleted
	p.Infiltration = MaxInfiltration
	p.CompletedAt = &now
}

// Abandon gives up on an active palace.
func (p *Palace) Abandon() bool {
	if p.Status != PalaceActive {
		return false
	}
	p.Status = PalaceAbandoned
	return true
}

// DaysRemaining returns the whole days left until the deadline, never
// negative. ok is false when the palace has no deadline.
func (p *Palace) DaysRemaining(today time.Time) (days int, ok bool) {
	if p.Deadline == nil {
		return 0, false
	}
	return max(0, daysBetween(today, *p.Deadline)), true
}

// IsOverdue reports whether an active palace is past its deadline.
func (p *Palace) IsOverdue(today time.Time) bool {
	if p.Deadline == nil || p.Status != PalaceActive {
		return false
	}
	return DateOf(today).After(DateOf(*p.Deadline))
}
