package db

import (
	"context"
	"fmt"

	"github.com/kidandcat/phantomhq/internal/models"
	"github.com/kidandcat/phantomhq/internal/storage"
)

const userColumns = `id, username, total_exp, level, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Username, &u.TotalExp, &u.Level, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}

func (q *Queries) CreateUser(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now()
	}
	if u.Level < 1 {
		u.Level = models.LevelForExp(u.TotalExp)
	}
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO users (username, total_exp, level, created_at) VALUES (?, ?, ?, ?)",
		u.Username, u.TotalExp, u.Level, formatTime(u.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user %q: %w", u.Username, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user id: %w", err)
	}
	return nil
}

func (q *Queries) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("query user %d: %w", id, notFound(err))
	}
	return u, nil
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username))
	if err != nil {
		return nil, fmt.Errorf("query user %q: %w", username, notFound(err))
	}
	return u, nil
}

func (q *Queries) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE users SET total_exp = ?, level = ? WHERE id = ?",
		u.TotalExp, u.Level, u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return nil
}

func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}
