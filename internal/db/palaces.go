package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kidandcat/phantomhq/internal/models"
)

const palaceColumns = `id, user_id, name, description, boss_name, infiltration_percentage,
	status, deadline, created_at, completed_at`

func scanPalace(row rowScanner) (*models.Palace, error) {
	var (
		p                     models.Palace
		status, createdAt     string
		deadline, completedAt sql.NullString
	)
	if err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Description, &p.BossName, &p.Infiltration,
		&status, &deadline, &createdAt, &completedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if p.Status, err = models.ParsePalaceStatus(status); err != nil {
		return nil, fmt.Errorf("palace %d: %w", p.ID, err)
	}
	if p.Deadline, err = parseNullDate(deadline); err != nil {
		return nil, fmt.Errorf("palace %d deadline: %w", p.ID, err)
	}
	if p.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return nil, fmt.Errorf("palace %d completed_at: %w", p.ID, err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("palace %d created_at: %w", p.ID, err)
	}
	return &p, nil
}

func (q *Queries) CreatePalace(ctx context.Context, p *models.Palace) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO palaces (user_id, name, description, boss_name, infiltration_percentage,
			status, deadline, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Name, p.Description, p.BossName, p.Infiltration,
		p.Status.String(), nullDate(p.Deadline), formatTime(p.CreatedAt), nullTime(p.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("insert palace: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert palace id: %w", err)
	}
	return nil
}

func (q *Queries) GetPalace(ctx context.Context, id int64) (*models.Palace, error) {
	p, err := scanPalace(q.db.QueryRowContext(ctx, "SELECT "+palaceColumns+" FROM palaces WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("query palace %d: %w", id, notFound(err))
	}
	return p, nil
}

func (q *Queries) UpdatePalace(ctx context.Context, p *models.Palace) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE palaces SET name = ?, description = ?, boss_name = ?, infiltration_percentage = ?,
			status = ?, deadline = ?, completed_at = ?
		WHERE id = ?`,
		p.Name, p.Description, p.BossName, p.Infiltration,
		p.Status.String(), nullDate(p.Deadline), nullTime(p.CompletedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update palace %d: %w", p.ID, err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("update palace %d: %w", p.ID, err)
	}
	return nil
}

func (q *Queries) ListPalacesByStatus(ctx context.Context, userID int64, status models.PalaceStatus) ([]models.Palace, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+palaceColumns+" FROM palaces WHERE user_id = ? AND status = ? ORDER BY created_at, id",
		userID, status.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list %s palaces: %w", status, err)
	}
	defer rows.Close()

	var palaces []models.Palace
	for rows.Next() {
		p, err := scanPalace(rows)
		if err != nil {
			return nil, fmt.Errorf("list %s palaces: %w", status, err)
		}
		palaces = append(palaces, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s palaces: %w", status, err)
	}
	return palaces, nil
}
