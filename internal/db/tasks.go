package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/kidandcat/phantomhq/internal/models"
)

const taskColumns = `id, user_id, title, description, category, difficulty, status,
	exp_reward, stat_boost, deadline, completed_at, created_at`

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t                                models.Task
		category, difficulty, status     string
		statBoost, deadline, completedAt sql.NullString
		createdAt                        string
	)
	if err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &category, &difficulty, &status,
		&t.ExpReward, &statBoost, &deadline, &completedAt, &createdAt,
	); err != nil {
		return nil, err
	}

	t.Category = models.CategoryFromString(category)
	if t.Category == models.CategoryUnknown && category != models.CategoryUnknown.String() {
		log.Printf("task %d: unknown category %q, treating as %s", t.ID, category, t.Category)
	}
	t.Difficulty = models.DifficultyFromString(difficulty)
	if t.Difficulty == models.DifficultyUnknown && difficulty != models.DifficultyUnknown.String() {
		log.Printf("task %d: unknown difficulty %q, treating as %s", t.ID, difficulty, t.Difficulty)
	}

	var err error
	if t.Status, err = models.ParseTaskStatus(status); err != nil {
		return nil, fmt.Errorf("task %d: %w", t.ID, err)
	}
	if statBoost.Valid {
		if n, err := models.ParseStatName(statBoost.String); err == nil {
			t.StatBoost = &n
		}
	}
	if t.Deadline, err = parseNullDate(deadline); err != nil {
		return nil, fmt.Errorf("task %d deadline: %w", t.ID, err)
	}
	if t.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return nil, fmt.Errorf("task %d completed_at: %w", t.ID, err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("task %d created_at: %w", t.ID, err)
	}
	return &t, nil
}

func nullStat(n *models.StatName) any {
	if n == nil {
		return nil
	}
	return n.String()
}

func (q *Queries) CreateTask(ctx context.Context, t *models.Task) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now()
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO tasks (user_id, title, description, category, difficulty, status,
			exp_reward, stat_boost, deadline, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Title, t.Description, t.Category.String(), t.Difficulty.String(), t.Status.String(),
		t.ExpReward, nullStat(t.StatBoost), nullDate(t.Deadline), nullTime(t.CompletedAt), formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert task id: %w", err)
	}
	return nil
}

func (q *Queries) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	t, err := scanTask(q.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("query task %d: %w", id, notFound(err))
	}
	return t, nil
}

func (q *Queries) UpdateTask(ctx context.Context, t *models.Task) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, category = ?, difficulty = ?, status = ?,
			exp_reward = ?, stat_boost = ?, deadline = ?, completed_at = ?
		WHERE id = ?`,
		t.Title, t.Description, t.Category.String(), t.Difficulty.String(), t.Status.String(),
		t.ExpReward, nullStat(t.StatBoost), nullDate(t.Deadline), nullTime(t.CompletedAt), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	return nil
}

func (q *Queries) CompleteTask(ctx context.Context, t *models.Task) (bool, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE tasks SET status = 'completed', exp_reward = ?, stat_boost = ?, completed_at = ?
		WHERE id = ? AND status <> 'completed'`,
		t.ExpReward, nullStat(t.StatBoost), nullTime(t.CompletedAt), t.ID,
	)
	if err != nil {
		return false, fmt.Errorf("complete task %d: %w", t.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete task %d: %w", t.ID, err)
	}
	return n == 1, nil
}

func (q *Queries) listTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (q *Queries) ListTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	tasks, err := q.listTasks(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (q *Queries) ListTasksByStatus(ctx context.Context, userID int64, status models.TaskStatus) ([]models.Task, error) {
	tasks, err := q.listTasks(ctx,
		"SELECT "+taskColumns+` FROM tasks WHERE user_id = ? AND status = ?
		ORDER BY deadline IS NULL, deadline ASC, id ASC`, userID, status.String())
	if err != nil {
		return nil, fmt.Errorf("list %s tasks: %w", status, err)
	}
	return tasks, nil
}

func (q *Queries) CountTasksByStatus(ctx context.Context, userID int64, status models.TaskStatus) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks WHERE user_id = ? AND status = ?", userID, status.String(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s tasks: %w", status, err)
	}
	return n, nil
}
