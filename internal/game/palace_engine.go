package game

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kidandcat/phantomhq/internal/models"
	"github.com/kidandcat/phantomhq/internal/storage"
)

// InfiltrationPerTask is the progress every completed task adds to a palace.
const InfiltrationPerTask = 0.5

// InfiltrationFor converts a completed-task count into a percentage.
func InfiltrationFor(completedTasks int) float64 {
	return math.Min(models.MaxInfiltration, float64(completedTasks)*InfiltrationPerTask)
}

// CalculateInfiltration derives the percentage from all of the user's
// completed tasks. Tasks are not associated with a specific palace, so every
// palace of a user converges on the same value.
func CalculateInfiltration(ctx context.Context, repo storage.Repository, userID int64) (float64, error) {
	n, err := repo.CountTasksByStatus(ctx, userID, models.TaskCompleted)
	if err != nil {
		return 0, fmt.Errorf("count completed tasks: %w", err)
	}
	return InfiltrationFor(n), nil
}

// UpdatePalaceProgress recomputes and saves the palace's infiltration,
// reporting whether this update completed it.
func UpdatePalaceProgress(ctx context.Context, repo storage.Repository, palace *models.Palace, now time.Time) (bool, error) {
	pct, err := CalculateInfiltration(ctx, repo, palace.UserID)
	if err != nil {
		return false, err
	}
	completed := palace.UpdateInfiltration(pct, now)
	if err := repo.UpdatePalace(ctx, palace); err != nil {
		return false, fmt.Errorf("save palace: %w", err)
	}
	return completed, nil
}

func ActivePalaces(ctx context.Context, repo storage.Repository, userID int64) ([]models.Palace, error) {
	return repo.ListPalacesByStatus(ctx, userID, models.PalaceActive)
}

func CompletedPalaces(ctx context.Context, repo storage.Repository, userID int64) ([]models.Palace, error) {
	return repo.ListPalacesByStatus(ctx, userID, models.PalaceCompleted)
}

// PalaceStatusInfo is the formatted view of a palace.
type PalaceStatusInfo struct {
	Name          string
	Infiltration  string
	Status        string
	Deadline      string
	DaysRemaining string
	Boss          string
	Warning       string
}

// PalaceStatus formats palace for display as of today.
func PalaceStatus(p *models.Palace, today time.Time) PalaceStatusInfo {
	info := PalaceStatusInfo{
		Name:          p.Name,
		Infiltration:  fmt.Sprintf("%.1f%%", p.Infiltration),
		Status:        p.Status.String(),
		Deadline:      "No deadline",
		DaysRemaining: "N/A",
		Boss:          p.BossName,
	}
	if p.Deadline != nil {
		info.Deadline = models.FormatDate(*p.Deadline)
	}
	if days, ok := p.DaysRemaining(today); ok {
		info.DaysRemaining = fmt.Sprintf("%d", days)
	}
	if info.Boss == "" {
		info.Boss = "Unknown"
	}
	if p.IsOverdue(today) {
		info.Warning = "OVERDUE"
	}
	return info
}

// PalaceProgress is the chart-facing view of one active palace.
type PalaceProgress struct {
	Name         string
	Infiltration float64
}
