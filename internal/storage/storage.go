// Package storage defines the persistence contracts used by the game core.
//
// The core depends only on these interfaces; internal/db provides the SQLite
// implementation.
package storage

import (
	"context"
	"errors"

	"github.com/kidandcat/phantomhq/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	// DeleteUser removes the user together with its tasks, palaces and stats.
	DeleteUser(ctx context.Context, id int64) error
}

type StatsStore interface {
	CreateStats(ctx context.Context, s *models.Stats) error
	GetStatsByUser(ctx context.Context, userID int64) (*models.Stats, error)
	UpdateStats(ctx context.Context, s *models.Stats) error
}

type TaskStore interface {
	CreateTask(ctx context.Context, t *models.Task) error
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	UpdateTask(ctx context.Context, t *models.Task) error
	// CompleteTask persists a completed task only if the stored row is not
	// already completed, reporting whether the row changed.
	CompleteTask(ctx context.Context, t *models.Task) (bool, error)
	// ListTasks returns every task of the user, newest first.
	ListTasks(ctx context.Context, userID int64) ([]models.Task, error)
	// ListTasksByStatus orders by deadline, tasks without one last.
	ListTasksByStatus(ctx context.Context, userID int64, status models.TaskStatus) ([]models.Task, error)
	CountTasksByStatus(ctx context.Context, userID int64, status models.TaskStatus) (int, error)
}

type PalaceStore interface {
	CreatePalace(ctx context.Context, p *models.Palace) error
	GetPalace(ctx context.Context, id int64) (*models.Palace, error)
	UpdatePalace(ctx context.Context, p *models.Palace) error
	// ListPalacesByStatus returns palaces in creation order.
	ListPalacesByStatus(ctx context.Context, userID int64, status models.PalaceStatus) ([]models.Palace, error)
}

// Repository is the full set of record operations.
type Repository interface {
	UserStore
	StatsStore
	TaskStore
	PalaceStore
}

// Store is a Repository that can group operations into one transaction.
type Store interface {
	Repository
	// WithTx runs fn against a transactional Repository. The transaction
	// commits iff fn returns nil.
	WithTx(ctx context.Context, fn func(Repository) error) error
	Close() error
}
