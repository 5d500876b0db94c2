package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/kidandcat/phantomhq/internal/models"
	"github.com/kidandcat/phantomhq/internal/storage"
)

// Rank is the label for a statistic's value band.
type Rank string

const (
	RankNovice       Rank = "Novice"
	RankBeginner     Rank = "Beginner"
	RankIntermediate Rank = "Intermediate"
	RankAdvanced     Rank = "Advanced"
	RankExpert       Rank = "Expert"
	RankMax          Rank = "MAX"
)

// StatBoost describes the statistic change applied by one completion.
type StatBoost struct {
	Stat      models.StatName
	Amount    int
	NewValue  int
	Increased bool // false when the statistic was already at the cap
}

// StatFor maps a task category onto the statistic it grows. Unrecognized
// categories grow knowledge.
func StatFor(c models.Category) models.StatName {
	switch c {
	case models.CategoryGuts:
		return models.StatGuts
	case models.CategoryProficiency:
		return models.StatProficiency
	case models.CategoryKindness:
		return models.StatKindness
	case models.CategoryCharm:
		return models.StatCharm
	default:
		return models.StatKnowledge
	}
}

// BoostAmount is the statistic increase for a difficulty; 1 when unrecognized.
func BoostAmount(d models.Difficulty) int {
	switch d {
	case models.DifficultyMedium:
		return 2
	case models.DifficultyHard:
		return 3
	case models.DifficultyExtreme:
		return 5
	default:
		return 1
	}
}

// ApplyStatBoost grows the statistic for task on stats and records the
// boosted statistic on the task.
func ApplyStatBoost(stats *models.Stats, task *models.Task) StatBoost {
	stat := StatFor(task.Category)
	amount := BoostAmount(task.Difficulty)
	increased := stats.Increase(stat, amount)
	task.StatBoost = &stat
	return StatBoost{
		Stat:      stat,
		Amount:    amount,
		NewValue:  stats.Get(stat),
		Increased: increased,
	}
}

// ProcessTaskCompletion loads (or creates) the owner's stats, applies the
// boost for task and persists the stats. The task itself is not saved.
func ProcessTaskCompletion(ctx context.Context, repo storage.Repository, task *models.Task) (StatBoost, error) {
	stats, err := GetOrCreateStats(ctx, repo, task.UserID)
	if err != nil {
		return StatBoost{}, err
	}
	boost := ApplyStatBoost(stats, task)
	if err := repo.UpdateStats(ctx, stats); err != nil {
		return StatBoost{}, fmt.Errorf("save stats: %w", err)
	}
	return boost, nil
}

func GetOrCreateStats(ctx context.Context, repo storage.Repository, userID int64) (*models.Stats, error) {
	stats, err := repo.GetStatsByUser(ctx, userID)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	stats = &models.Stats{UserID: userID}
	if err := repo.CreateStats(ctx, stats); err != nil {
		return nil, fmt.Errorf("create stats: %w", err)
	}
	return stats, nil
}

// StatRank returns the rank for a statistic value.
func StatRank(value int) Rank {
	switch {
	case value >= 90:
		return RankMax
	case value >= 70:
		return RankExpert
	case value >= 50:
		return RankAdvanced
	case value >= 30:
		return RankIntermediate
	case value >= 10:
		return RankBeginner
	default:
		return RankNovice
	}
}

// StatsSummary is the presentation view of a user's statistics.
type StatsSummary struct {
	Knowledge   int
	Guts        int
	Proficiency int
	Kindness    int
	Charm       int
	Total       int
}

func Summarize(s *models.Stats) StatsSummary {
	return StatsSummary{
		Knowledge:   s.Knowledge,
		Guts:        s.Guts,
		Proficiency: s.Proficiency,
		Kindness:    s.Kindness,
		Charm:       s.Charm,
		Total:       s.Total(),
	}
}

func (s StatsSummary) Value(name models.StatName) int {
	switch name {
	case models.StatKnowledge:
		return s.Knowledge
	case models.StatGuts:
		return s.Guts
	case models.StatProficiency:
		return s.Proficiency
	case models.StatKindness:
		return s.Kindness
	case models.StatCharm:
		return s.Charm
	}
	return 0
}

// Map returns the summary keyed by display name, plus "Total".
func (s StatsSummary) Map() map[string]int {
	m := make(map[string]int, 6)
	for _, name := range models.StatNames() {
		m[name.Label()] = s.Value(name)
	}
	m["Total"] = s.Total
	return m
}

// StatRankEntry pairs a statistic with its value and rank.
type StatRankEntry struct {
	Stat  models.StatName
	Value int
	Rank  Rank
}

// Ranks lists every statistic in display order with its rank.
func (s StatsSummary) Ranks() []StatRankEntry {
	entries := make([]StatRankEntry, 0, 5)
	for _, name := range models.StatNames() {
		v := s.Value(name)
		entries = append(entries, StatRankEntry{Stat: name, Value: v, Rank: StatRank(v)})
	}
	return entries
}
