package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/kidandcat/phantomhq/internal/db/migrations"
	"github.com/kidandcat/phantomhq/internal/models"
	"github.com/kidandcat/phantomhq/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "phantom.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createUser(t *testing.T, store *Store, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Level: 1}
	require.NoError(t, store.CreateUser(context.Background(), u))
	require.NoError(t, store.CreateStats(context.Background(), &models.Stats{UserID: u.ID}))
	return u
}

func dateptr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestOpenInMemory(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	u := &models.User{Username: "joker"}
	require.NoError(t, store.CreateUser(context.Background(), u))
	got, err := store.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Level)
}

func TestReopenSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phantom.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	var n int
	require.NoError(t, second.sqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n))
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)
	assert.Equal(t, len(entries), n)
}

func TestUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	u := createUser(t, store, "joker")
	assert.NotZero(t, u.ID)

	got, err := store.GetUserByUsername(ctx, "joker")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, 0, got.TotalExp)
	assert.Equal(t, 1, got.Level)

	got.AddExp(150)
	require.NoError(t, store.UpdateUser(ctx, got))

	again, err := store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 150, again.TotalExp)
	assert.Equal(t, 2, again.Level)
}

func TestDuplicateUsername(t *testing.T) {
	store := openTestStore(t)
	createUser(t, store, "joker")

	err := store.CreateUser(context.Background(), &models.User{Username: "joker", Level: 1})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestMissingRecordsReturnNotFound(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.GetUser(ctx, 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetTask(ctx, 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetPalace(ctx, 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetStatsByUser(ctx, 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.UpdateTask(ctx, &models.Task{ID: 404}), storage.ErrNotFound)
	assert.ErrorIs(t, store.DeleteUser(ctx, 404), storage.ErrNotFound)
}

func TestTaskRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	u := createUser(t, store, "joker")

	task := &models.Task{
		UserID:      u.ID,
		Title:       "Read a book",
		Description: "any book",
		Category:    models.CategoryKnowledge,
		Difficulty:  models.DifficultyMedium,
		Deadline:    dateptr(2026, time.May, 1),
	}
	task.CalculateExpReward()
	require.NoError(t, store.CreateTask(ctx, task))

	got, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Read a book", got.Title)
	assert.Equal(t, models.CategoryKnowledge, got.Category)
	assert.Equal(t, models.DifficultyMedium, got.Difficulty)
	assert.Equal(t, models.TaskPending, got.Status)
	assert.Equal(t, 25, got.ExpReward)
	assert.Nil(t, got.StatBoost)
	assert.Nil(t, got.CompletedAt)
	require.NotNil(t, got.Deadline)
	assert.Equal(t, "2026-05-01", models.FormatDate(*got.Deadline))

	done := time.Date(2026, time.April, 2, 8, 0, 0, 0, time.UTC)
	got.Complete(done)
	stat := models.StatKnowledge
	got.StatBoost = &stat
	changed, err := store.CompleteTask(ctx, got)
	require.NoError(t, err)
	assert.True(t, changed)

	again, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, again.Status)
	require.NotNil(t, again.StatBoost)
	assert.Equal(t, models.StatKnowledge, *again.StatBoost)
	require.NotNil(t, again.CompletedAt)
	assert.True(t, done.Equal(*again.CompletedAt))

	changed, err = store.CompleteTask(ctx, again)
	require.NoError(t, err)
	assert.False(t, changed, "second completion must not touch the row")
}

func TestUnknownEnumsDecodeToDefaults(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	u := createUser(t, store, "joker")

	res, err := store.sqlDB.Exec(`INSERT INTO tasks (user_id, title, category, difficulty, created_at)
		VALUES (?, 'legacy', 'Stealth', 'Nightmare', ?)`, u.ID, formatTime(time.Now()))
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)

	got, err := store.GetTask(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryUnknown, got.Category)
	assert.Equal(t, models.DifficultyUnknown, got.Difficulty)
	assert.Equal(t, 10, got.Difficulty.ExpReward())
}

func TestListTasksByStatusOrdersByDeadline(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	u := createUser(t, store, "joker")
	other := createUser(t, store, "skull")

	for _, tc := range []struct {
		owner    int64
		title    string
		deadline *time.Time
		status   models.TaskStatus
	}{
		{u.ID, "no deadline", nil, models.TaskPending},
		{u.ID, "late", dateptr(2026, time.June, 1), models.TaskPending},
		{u.ID, "soon", dateptr(2026, time.January, 5), models.TaskPending},
		{u.ID, "done", dateptr(2026, time.January, 1), models.TaskCompleted},
		{other.ID, "not mine", dateptr(2026, time.January, 1), models.TaskPending},
	} {
		require.NoError(t, store.CreateTask(ctx, &models.Task{
			UserID: tc.owner, Title: tc.title, Deadline: tc.deadline, Status: tc.status,
			Category: models.CategoryGuts, Difficulty: models.DifficultyEasy,
		}))
	}

	pending, err := store.ListTasksByStatus(ctx, u.ID, models.TaskPending)
	require.NoError(t, err)
	var titles []string
	for _, task := range pending {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"soon", "late", "no deadline"}, titles)

	n, err := store.CountTasksByStatus(ctx, u.ID, models.TaskCompleted)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := store.ListTasks(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestPalaceRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	u := createUser(t, store, "joker")

	first := &models.Palace{UserID: u.ID, Name: "Castle of Lust", BossName: "Kamoshida"}
	second := &models.Palace{UserID: u.ID, Name: "Museum of Vanity", Deadline: dateptr(2026, time.July, 7)}
	require.NoError(t, store.CreatePalace(ctx, first))
	require.NoError(t, store.CreatePalace(ctx, second))

	when := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	first.UpdateInfiltration(120, when)
	require.NoError(t, store.UpdatePalace(ctx, first))

	active, err := store.ListPalacesByStatus(ctx, u.ID, models.PalaceActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Museum of Vanity", active[0].Name)
	require.NotNil(t, active[0].Deadline)

	completed, err := store.ListPalacesByStatus(ctx, u.ID, models.PalaceCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, 100.0, completed[0].Infiltration)
	assert.Equal(t, "Kamoshida", completed[0].BossName)
	require.NotNil(t, completed[0].CompletedAt)
	assert.True(t, when.Equal(*completed[0].CompletedAt))
}

func TestStatsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	u := createUser(t, store, "joker")

	s, err := store.GetStatsByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Total())

	s.Increase(models.StatCharm, 5)
	s.Increase(models.StatGuts, 3)
	require.NoError(t, store.UpdateStats(ctx, s))

	again, err := store.GetStatsByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, again.Charm)
	assert.Equal(t, 3, again.Guts)

	err = store.CreateStats(ctx, &models.Stats{UserID: u.ID})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	u := createUser(t, store, "joker")

	task := &models.Task{UserID: u.ID, Title: "t", Category: models.CategoryCharm, Difficulty: models.DifficultyEasy}
	require.NoError(t, store.CreateTask(ctx, task))
	palace := &models.Palace{UserID: u.ID, Name: "p"}
	require.NoError(t, store.CreatePalace(ctx, palace))

	require.NoError(t, store.DeleteUser(ctx, u.ID))

	_, err := store.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetPalace(ctx, palace.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetStatsByUser(ctx, u.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	u := createUser(t, store, "joker")

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(repo storage.Repository) error {
		user, err := repo.GetUser(ctx, u.ID)
		require.NoError(t, err)
		user.AddExp(500)
		require.NoError(t, repo.UpdateUser(ctx, user))
		require.NoError(t, repo.CreateTask(ctx, &models.Task{UserID: u.ID, Title: "ghost"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalExp)
	tasks, err := store.ListTasks(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	u := createUser(t, store, "joker")

	require.NoError(t, store.WithTx(ctx, func(repo storage.Repository) error {
		user, err := repo.GetUser(ctx, u.ID)
		if err != nil {
			return err
		}
		user.AddExp(100)
		return repo.UpdateUser(ctx, user)
	}))

	got, err := store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level)
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a(id INT);\n-- +migrate Down\nDROP TABLE a;"
	assert.Equal(t, "\nCREATE TABLE a(id INT);\n", extractUpMigration(content))
	assert.Equal(t, "SELECT 1;", extractUpMigration("SELECT 1;"))
}
