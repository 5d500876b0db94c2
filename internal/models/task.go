package models

import "time"

// Task is a unit of work owned by one user.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Category    Category
	Difficulty  Difficulty
	Status      TaskStatus
	ExpReward   int
	StatBoost   *StatName  // set on completion
	Deadline    *time.Time // calendar date, nil when none
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// CalculateExpReward stores and returns the reward for the task's difficulty.
func (t *Task) CalculateExpReward() int {
	t.ExpReward = t.Difficulty.ExpReward()
	return t.ExpReward
}

// IsOverdue reports whether the deadline has passed without completion.
func (t *Task) IsOverdue(today time.Time) bool {
	if t.Deadline == nil || t.Status == TaskCompleted {
		return false
	}
	return DateOf(today).After(DateOf(*t.Deadline))
}

// Complete moves the task to completed. It does not guard against repeated
// calls; callers check the status first.
func (t *Task) Complete(now time.Time) {
	t.Status = TaskCompleted
	t.CompletedAt = &now
	if t.ExpReward == 0 {
		t.CalculateExpReward()
	}
}

// Start moves a pending task to in_progress.
func (t *Task) Start() bool {
	if t.Status != TaskPending {
		return false
	}
	t.Status = TaskInProgress
	return true
}

// Cancel moves any non-completed task to cancelled.
func (t *Task) Cancel() bool {
	if t.Status == TaskCompleted || t.Status == TaskCancelled {
		return false
	}
	t.Status = TaskCancelled
	return true
}
