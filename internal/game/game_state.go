// Package game holds the progression rules: statistic growth, palace
// infiltration and the task completion transaction that ties them together.
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/kidandcat/phantomhq/internal/errors"
	"github.com/kidandcat/phantomhq/internal/models"
	"github.com/kidandcat/phantomhq/internal/storage"
)

// MsgAlreadyCompleted is returned in place of rewards for a finished task.
const MsgAlreadyCompleted = "Task already completed"

var errAlreadyCompleted = errors.New("task already completed")

// GameState coordinates one user session against a Store. It is not safe for
// concurrent use.
type GameState struct {
	store   storage.Store
	clock   Clock
	current *models.User
}

// New returns a GameState with no user loaded. A nil clock uses wall time.
func New(store storage.Store, clock Clock) *GameState {
	if clock == nil {
		clock = RealClock{}
	}
	return &GameState{store: store, clock: clock}
}

// NewTask is the validated input for CreateTask.
type NewTask struct {
	Title       string
	Description string
	Category    models.Category
	Difficulty  models.Difficulty
	Deadline    *time.Time
}

// NewPalace is the validated input for CreatePalace.
type NewPalace struct {
	Name        string
	Description string
	BossName    string
	Deadline    *time.Time
}

// CompletionResult reports the effects of CompleteTask.
type CompletionResult struct {
	TaskID           int64
	Task             string
	ExpGained        int
	StatBoost        *StatBoost
	LeveledUp        bool
	NewLevel         *int // set only when LeveledUp
	TotalExp         int
	CompletedPalaces []string
	AlreadyCompleted bool
	Message          string
}

// ExpPoint is the cumulative experience at the end of one day.
type ExpPoint struct {
	Date time.Time
	Exp  int
}

// CurrentUser returns a copy of the loaded user, or nil.
func (g *GameState) CurrentUser() *models.User {
	if g.current == nil {
		return nil
	}
	u := *g.current
	return &u
}

func (g *GameState) requireUser() (*models.User, error) {
	if g.current == nil {
		return nil, apperrors.ErrNoActiveUser
	}
	return g.current, nil
}

// Now reads the session clock.
func (g *GameState) Now() time.Time {
	return g.clock.Now()
}

// Today is the current calendar date according to the clock.
func (g *GameState) Today() time.Time {
	return models.DateOf(g.clock.Now())
}

// CreateUser registers username with zeroed stats and makes it current.
func (g *GameState) CreateUser(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "username is required")
	}

	user := &models.User{Username: username, Level: 1, CreatedAt: g.clock.Now()}
	err := g.store.WithTx(ctx, func(repo storage.Repository) error {
		if err := repo.CreateUser(ctx, user); err != nil {
			return err
		}
		return repo.CreateStats(ctx, &models.Stats{UserID: user.ID})
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, apperrors.WithMetadata(apperrors.CodeAlreadyExists,
			fmt.Sprintf("user %q already exists", username), map[string]string{"username": username})
	}
	if err != nil {
		return nil, persistence("create user", err)
	}

	log.Printf("created user %s", username)
	g.current = user
	return g.CurrentUser(), nil
}

// LoadUser makes an existing user current.
func (g *GameState) LoadUser(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	user, err := g.store.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("user %q not found", username), map[string]string{"username": username})
	}
	if err != nil {
		return nil, persistence("load user", err)
	}
	g.current = user
	return g.CurrentUser(), nil
}

// GetUserByID looks up any user without changing the session.
func (g *GameState) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := g.store.GetUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("user", id)
	}
	if err != nil {
		return nil, persistence("get user", err)
	}
	return user, nil
}

// RefreshUser reloads the current user from storage.
func (g *GameState) RefreshUser(ctx context.Context) (*models.User, error) {
	cur, err := g.requireUser()
	if err != nil {
		return nil, err
	}
	user, err := g.store.GetUser(ctx, cur.ID)
	if err != nil {
		return nil, persistence("refresh user", err)
	}
	g.current = user
	return g.CurrentUser(), nil
}

// DeleteCurrentUser removes the user with everything it owns and ends the
// session.
func (g *GameState) DeleteCurrentUser(ctx context.Context) error {
	user, err := g.requireUser()
	if err != nil {
		return err
	}
	if err := g.store.DeleteUser(ctx, user.ID); err != nil {
		return persistence("delete user", err)
	}
	log.Printf("deleted user %s", user.Username)
	g.current = nil
	return nil
}

// CreateTask adds a pending task for the current user.
func (g *GameState) CreateTask(ctx context.Context, in NewTask) (*models.Task, error) {
	user, err := g.requireUser()
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "title is required")
	}

	task := &models.Task{
		UserID:      user.ID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Difficulty:  in.Difficulty,
		Status:      models.TaskPending,
		Deadline:    in.Deadline,
		CreatedAt:   g.clock.Now(),
	}
	task.CalculateExpReward()
	if err := g.store.CreateTask(ctx, task); err != nil {
		return nil, persistence("create task", err)
	}
	return task, nil
}

func ownedTask(ctx context.Context, repo storage.Repository, userID, taskID int64) (*models.Task, error) {
	task, err := repo.GetTask(ctx, taskID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && task.UserID != userID) {
		return nil, notFound("task", taskID)
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func ownedPalace(ctx context.Context, repo storage.Repository, userID, palaceID int64) (*models.Palace, error) {
	palace, err := repo.GetPalace(ctx, palaceID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && palace.UserID != userID) {
		return nil, notFound("palace", palaceID)
	}
	if err != nil {
		return nil, err
	}
	return palace, nil
}

// GetTask returns one of the current user's tasks.
func (g *GameState) GetTask(ctx context.Context, taskID int64) (*models.Task, error) {
	user, err := g.requireUser()
	if err != nil {
		return nil, err
	}
	task, err := ownedTask(ctx, g.store, user.ID, taskID)
	if err != nil {
		return nil, persistence("get task", err)
	}
	return task, nil
}

// StartTask moves a pending task to in_progress.
func (g *GameState) StartTask(ctx context.Context, taskID int64) (*models.Task, error) {
	return g.transitionTask(ctx, taskID, "start", (*models.Task).Start)
}

// CancelTask cancels a task that has not been completed.
func (g *GameState) CancelTask(ctx context.Context, taskID int64) (*models.Task, error) {
	return g.transitionTask(ctx, taskID, "cancel", (*models.Task).Cancel)
}

func (g *GameState) transitionTask(ctx context.Context, taskID int64, verb string, transition func(*models.Task) bool) (*models.Task, error) {
	user, err := g.requireUser()
	if err != nil {
		return nil, err
	}
	var task *models.Task
	err = g.store.WithTx(ctx, func(repo storage.Repository) error {
		t, err := ownedTask(ctx, repo, user.ID, taskID)
		if err != nil {
			return err
		}
		from := t.Status
		if !transition(t) {
			return apperrors.Newf(apperrors.CodeInvalidArgument, "cannot %s task %d: it is %s", verb, taskID, from)
		}
		if err := repo.UpdateTask(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, persistence(verb+" task", err)
	}
	return task, nil
}

// CompleteTask completes one of the current user's tasks, awarding the
// statistic boost and experience and recomputing every active palace. All
// changes are committed together or not at all. Completing an already
// completed task returns AlreadyCompleted without any effect.
func (g *GameState) CompleteTask(ctx context.Context, taskID int64) (CompletionResult, error) {
	cur, err := g.requireUser()
	if err != nil {
		return CompletionResult{}, err
	}

	var (
		result CompletionResult
		user   *models.User
	)
	err = g.store.WithTx(ctx, func(repo storage.Repository) error {
		task, err := ownedTask(ctx, repo, cur.ID, taskID)
		if err != nil {
			return err
		}
		if task.Status == models.TaskCompleted {
			return errAlreadyCompleted
		}

		now := g.clock.Now()
		task.Complete(now)

		boost, err := ProcessTaskCompletion(ctx, repo, task)
		if err != nil {
			return err
		}
		changed, err := repo.CompleteTask(ctx, task)
		if err != nil {
			return err
		}
		if !changed {
			return errAlreadyCompleted
		}

		user, err = repo.GetUser(ctx, cur.ID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		leveledUp := user.AddExp(task.ExpReward)
		if err := repo.UpdateUser(ctx, user); err != nil {
			return fmt.Errorf("save user: %w", err)
		}

		palaces, err := ActivePalaces(ctx, repo, cur.ID)
		if err != nil {
			return fmt.Errorf("list active palaces: %w", err)
		}
		var completed []string
		for i := range palaces {
			done, err := UpdatePalaceProgress(ctx, repo, &palaces[i], now)
			if err != nil {
				return err
			}
			if done {
				completed = append(completed, palaces[i].Name)
			}
		}

		result = CompletionResult{
			TaskID:           task.ID,
			Task:             task.Title,
			ExpGained:        task.ExpReward,
			StatBoost:        &boost,
			LeveledUp:        leveledUp,
			TotalExp:         user.TotalExp,
			CompletedPalaces: completed,
		}
		if leveledUp {
			level := user.Level
			result.NewLevel = &level
		}
		return nil
	})
	if errors.Is(err, errAlreadyCompleted) {
		return CompletionResult{TaskID: taskID, AlreadyCompleted: true, Message: MsgAlreadyCompleted}, nil
	}
	if err != nil {
		if !apperrors.HasCode(err, apperrors.CodeNotFound) {
			log.Printf("complete task %d rolled back: %v", taskID, err)
		}
		return CompletionResult{}, persistence("complete task", err)
	}

	g.current = user
	if result.LeveledUp {
		log.Printf("%s reached level %d", user.Username, user.Level)
	}
	for _, name := range result.CompletedPalaces {
		log.Printf("%s infiltrated palace %q", user.Username, name)
	}
	return result, nil
}

// CreatePalace adds an active palace at 0% for the current user.
func (g *GameState) CreatePalace(ctx context.Context, in NewPalace) (*models.Palace, error) {
	user, err := g.requireUser()
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "palace name is required")
	}

	palace := &models.Palace{
		UserID:      user.ID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		BossName:    strings.TrimSpace(in.BossName),
		Status:      models.PalaceActive,
		Deadline:    in.Deadline,
		CreatedAt:   g.clock.Now(),
	}
	if err := g.store.CreatePalace(ctx, palace); err != nil {
		return nil, persistence("create palace", err)
	}
	return palace, nil
}

// AbandonPalace gives up on one of the current user's active palaces.
func (g *GameState) AbandonPalace(ctx context.Context, palaceID int64) (*models.Palace, error) {
	user, err := g.requireUser()
	if err != nil {
		return nil, err
	}
	var palace *models.Palace
	err = g.store.WithTx(ctx, func(repo storage.Repository) error {
		p, err := ownedPalace(ctx, repo, user.ID, palaceID)
		if err != nil {
			return err
		}
		if !p.Abandon() {
			return apperrors.Newf(apperrors.CodeInvalidArgument, "cannot abandon palace %d: it is %s", palaceID, p.Status)
		}
		if err := repo.UpdatePalace(ctx, p); err != nil {
			return err
		}
		palace = p
		return nil
	})
	if err != nil {
		return nil, persistence("abandon palace", err)
	}
	return palace, nil
}

// RecomputePalaces re-derives the progress of every active palace and
// returns them as stored afterwards.
func (g *GameState) RecomputePalaces(ctx context.Context) ([]models.Palace, error) {
	user, err := g.requireUser()
	if err != nil {
		return nil, err
	}
	var palaces []models.Palace
	err = g.store.WithTx(ctx, func(repo storage.Repository) error {
		active, err := ActivePalaces(ctx, repo, user.ID)
		if err != nil {
			return err
		}
		now := g.clock.Now()
		for i := range active {
			if _, err := UpdatePalaceProgress(ctx, repo, &active[i], now); err != nil {
				return err
			}
		}
		palaces = active
		return nil
	})
	if err != nil {
		return nil, persistence("recompute palaces", err)
	}
	return palaces, nil
}

// PendingTasks lists pending tasks by deadline.
func (g *GameState) PendingTasks(ctx context.Context) ([]models.Task, error) {
	return g.TasksByStatus(ctx, models.TaskPending)
}

func (g *GameState) TasksByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	user, err := g.requireUser()
	if err != nil {
		return nil, err
	}
	tasks, err := g.store.ListTasksByStatus(ctx, user.ID, status)
	if err != nil {
		return nil, persistence("list tasks", err)
	}
	return tasks, nil
}

// OverdueTasks lists pending tasks whose deadline has passed.
func (g *GameState) OverdueTasks(ctx context.Context) ([]models.Task, error) {
	pending, err := g.PendingTasks(ctx)
	if err != nil {
		return nil, err
	}
	today := g.Today()
	var overdue []models.Task
	for _, t := range pending {
		if t.IsOverdue(today) {
			overdue = append(overdue, t)
		}
	}
	return overdue, nil
}

// AllTasks lists every task of the current user, newest first.
func (g *GameState) AllTasks(ctx context.Context) ([]models.Task, error) {
	user, err := g.requireUser()
	if err != nil {
		return nil, err
	}
	tasks, err := g.store.ListTasks(ctx, user.ID)
	if err != nil {
		return nil, persistence("list tasks", err)
	}
	return tasks, nil
}

func (g *GameState) ActivePalaces(ctx context.Context) ([]models.Palace, error) {
	return g.PalacesByStatus(ctx, models.PalaceActive)
}

func (g *GameState) CompletedPalaces(ctx context.Context) ([]models.Palace, error) {
	return g.PalacesByStatus(ctx, models.PalaceCompleted)
}

func (g *GameState) PalacesByStatus(ctx context.Context, status models.PalaceStatus) ([]models.Palace, error) {
	user, err := g.requireUser()
	if err != nil {
		return nil, err
	}
	palaces, err := g.store.ListPalacesByStatus(ctx, user.ID, status)
	if err != nil {
		return nil, persistence("list palaces", err)
	}
	return palaces, nil
}

// PalaceStatuses formats every active palace.
func (g *GameState) PalaceStatuses(ctx context.Context) ([]PalaceStatusInfo, error) {
	palaces, err := g.ActivePalaces(ctx)
	if err != nil {
		return nil, err
	}
	today := g.Today()
	infos := make([]PalaceStatusInfo, 0, len(palaces))
	for i := range palaces {
		infos = append(infos, PalaceStatus(&palaces[i], today))
	}
	return infos, nil
}

// PalaceProgress lists name and infiltration for every active palace.
func (g *GameState) PalaceProgress(ctx context.Context) ([]PalaceProgress, error) {
	palaces, err := g.ActivePalaces(ctx)
	if err != nil {
		return nil, err
	}
	progress := make([]PalaceProgress, 0, len(palaces))
	for _, p := range palaces {
		progress = append(progress, PalaceProgress{Name: p.Name, Infiltration: p.Infiltration})
	}
	return progress, nil
}

// Stats returns the current user's statistics, creating them if missing.
func (g *GameState) Stats(ctx context.Context) (*models.Stats, error) {
	user, err := g.requireUser()
	if err != nil {
		return nil, err
	}
	var stats *models.Stats
	err = g.store.WithTx(ctx, func(repo storage.Repository) error {
		s, err := GetOrCreateStats(ctx, repo, user.ID)
		stats = s
		return err
	})
	if err != nil {
		return nil, persistence("load stats", err)
	}
	return stats, nil
}

func (g *GameState) StatsSummary(ctx context.Context) (StatsSummary, error) {
	stats, err := g.Stats(ctx)
	if err != nil {
		return StatsSummary{}, err
	}
	return Summarize(stats), nil
}

// StatRanks lists every statistic with its rank.
func (g *GameState) StatRanks(ctx context.Context) ([]StatRankEntry, error) {
	summary, err := g.StatsSummary(ctx)
	if err != nil {
		return nil, err
	}
	return summary.Ranks(), nil
}

// ExpHistory rebuilds cumulative experience per completion day from the
// completed tasks. Days follow the clock's location, like Today.
func (g *GameState) ExpHistory(ctx context.Context) ([]ExpPoint, error) {
	completed, err := g.TasksByStatus(ctx, models.TaskCompleted)
	if err != nil {
		return nil, err
	}
	loc := g.clock.Now().Location()
	perDay := make(map[time.Time]int)
	var days []time.Time
	for _, t := range completed {
		if t.CompletedAt == nil {
			continue
		}
		day := models.DateOf(t.CompletedAt.In(loc))
		if _, seen := perDay[day]; !seen {
			days = append(days, day)
		}
		perDay[day] += t.ExpReward
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	history := make([]ExpPoint, 0, len(days))
	total := 0
	for _, day := range days {
		total += perDay[day]
		history = append(history, ExpPoint{Date: day, Exp: total})
	}
	return history, nil
}

func notFound(kind string, id int64) error {
	return apperrors.WithMetadata(apperrors.CodeNotFound,
		fmt.Sprintf("%s %d not found", kind, id),
		map[string]string{kind + "_id": strconv.FormatInt(id, 10)})
}

// persistence passes coded errors through and wraps anything else as a
// persistence failure.
func persistence(op string, err error) error {
	if apperrors.CodeOf(err) != apperrors.CodeUnknown {
		return err
	}
	return apperrors.Wrap(apperrors.CodePersistence, op, err)
}
