package db

import (
	"context"
	"fmt"

	"github.com/kidandcat/phantomhq/internal/models"
	"github.com/kidandcat/phantomhq/internal/storage"
)

func (q *Queries) CreateStats(ctx context.Context, s *models.Stats) error {
	s.UpdatedAt = now()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO stats (user_id, knowledge, guts, proficiency, kindness, charm, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.UserID, s.Knowledge, s.Guts, s.Proficiency, s.Kindness, s.Charm, formatTime(s.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert stats for user %d: %w", s.UserID, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("insert stats: %w", err)
	}
	s.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert stats id: %w", err)
	}
	return nil
}

func (q *Queries) GetStatsByUser(ctx context.Context, userID int64) (*models.Stats, error) {
	var s models.Stats
	var updatedAt string
	err := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, knowledge, guts, proficiency, kindness, charm, updated_at
		FROM stats WHERE user_id = ?`, userID,
	).Scan(&s.ID, &s.UserID, &s.Knowledge, &s.Guts, &s.Proficiency, &s.Kindness, &s.Charm, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("query stats for user %d: %w", userID, notFound(err))
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (q *Queries) UpdateStats(ctx context.Context, s *models.Stats) error {
	s.UpdatedAt = now()
	res, err := q.db.ExecContext(ctx,
		`UPDATE stats SET knowledge = ?, guts = ?, proficiency = ?, kindness = ?, charm = ?, updated_at = ?
		WHERE user_id = ?`,
		s.Knowledge, s.Guts, s.Proficiency, s.Kindness, s.Charm, formatTime(s.UpdatedAt), s.UserID,
	)
	if err != nil {
		return fmt.Errorf("update stats for user %d: %w", s.UserID, err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("update stats for user %d: %w", s.UserID, err)
	}
	return nil
}
