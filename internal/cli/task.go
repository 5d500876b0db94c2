package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/kidandcat/phantomhq/internal/errors"
	"github.com/kidandcat/phantomhq/internal/game"
	"github.com/kidandcat/phantomhq/internal/models"
	"github.com/spf13/cobra"
)

const maxTitleRunes = 28

func choices[T fmt.Stringer](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.String()
	}
	return strings.Join(names, ", ")
}

func newTaskCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskAddCommand(a),
		newTaskListCommand(a),
		newTaskTransitionCommand(a, "start", "Start a pending task", (*game.GameState).StartTask),
		newTaskTransitionCommand(a, "cancel", "Cancel a task that is not completed", (*game.GameState).CancelTask),
		newTaskCompleteCommand(a),
	)
	return cmd
}

func newTaskAddCommand(a *app) *cobra.Command {
	var category, difficulty, description, deadline string
	cmd := withSession(&cobra.Command{
		Use:   "add <title>",
		Short: "Add a pending task",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := parseNewTask(args[0], category, difficulty, description, deadline)
			if err != nil {
				return err
			}
			task, err := a.game.CreateTask(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.printf("%s Added task #%d %q (%s, %s, %s)\n", a.style.green("✓"), task.ID, task.Title,
				task.Category, task.Difficulty, exp(task.ExpReward))
			return nil
		},
	}, sessionUser)

	f := cmd.Flags()
	f.StringVarP(&category, "category", "c", "", "one of: "+choices(models.Categories()))
	f.StringVarP(&difficulty, "difficulty", "d", "", "one of: "+choices(models.Difficulties()))
	f.StringVar(&description, "description", "", "optional description")
	f.StringVar(&deadline, "deadline", "", "due date as YYYY-MM-DD")
	return cmd
}

// parseNewTask validates raw flag values so that only well-formed input
// reaches the game.
func parseNewTask(title, category, difficulty, description, deadline string) (game.NewTask, error) {
	if strings.TrimSpace(title) == "" {
		return game.NewTask{}, apperrors.New(apperrors.CodeInvalidArgument, "title is required")
	}
	if strings.TrimSpace(category) == "" {
		return game.NewTask{}, apperrors.Newf(apperrors.CodeInvalidArgument,
			"--category is required (one of: %s)", choices(models.Categories()))
	}
	c, err := models.ParseCategory(category)
	if err != nil {
		return game.NewTask{}, apperrors.Wrap(apperrors.CodeInvalidArgument,
			"invalid --category (one of: "+choices(models.Categories())+")", err)
	}
	if strings.TrimSpace(difficulty) == "" {
		return game.NewTask{}, apperrors.Newf(apperrors.CodeInvalidArgument,
			"--difficulty is required (one of: %s)", choices(models.Difficulties()))
	}
	d, err := models.ParseDifficulty(difficulty)
	if err != nil {
		return game.NewTask{}, apperrors.Wrap(apperrors.CodeInvalidArgument,
			"invalid --difficulty (one of: "+choices(models.Difficulties())+")", err)
	}
	due, err := parseDeadline(deadline)
	if err != nil {
		return game.NewTask{}, err
	}
	return game.NewTask{
		Title:       title,
		Description: description,
		Category:    c,
		Difficulty:  d,
		Deadline:    due,
	}, nil
}

func newTaskListCommand(a *app) *cobra.Command {
	var status string
	var overdue bool
	cmd := withSession(&cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				tasks []models.Task
				err   error
			)
			switch {
			case overdue:
				tasks, err = a.game.OverdueTasks(ctx)
			case strings.EqualFold(status, "all"):
				tasks, err = a.game.AllTasks(ctx)
			default:
				s, perr := models.ParseTaskStatus(status)
				if perr != nil {
					return apperrors.Wrap(apperrors.CodeInvalidArgument,
						"invalid --status (one of: "+choices(models.TaskStatuses())+", all)", perr)
				}
				tasks, err = a.game.TasksByStatus(ctx, s)
			}
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				a.printf("No tasks.\n")
				return nil
			}
			writeTasks(a.out, tasks, a.game.Today(), a.game.Now())
			return nil
		},
	}, sessionUser)
	cmd.Flags().StringVarP(&status, "status", "s", models.TaskPending.String(), "status filter: "+choices(models.TaskStatuses())+" or all")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "only pending tasks past their deadline")
	return cmd
}

func writeTasks(w io.Writer, tasks []models.Task, today, now time.Time) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tDIFFICULTY\tEXP\tSTATUS\tDEADLINE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			t.ID, truncate(t.Title, maxTitleRunes), t.Category, t.Difficulty, t.ExpReward,
			taskStatusCell(&t, now), deadlineCell(t.Deadline, &t, today))
	}
	tw.Flush()
}

func taskStatusCell(t *models.Task, now time.Time) string {
	if t.Status == models.TaskCompleted && t.CompletedAt != nil {
		return label(t.Status) + " " + relative(*t.CompletedAt, now)
	}
	return label(t.Status)
}

func deadlineCell(deadline *time.Time, t *models.Task, today time.Time) string {
	if deadline == nil {
		return "-"
	}
	cell := models.FormatDate(*deadline)
	if t.IsOverdue(today) {
		cell += " OVERDUE"
	}
	return cell
}

type taskTransition func(*game.GameState, context.Context, int64) (*models.Task, error)

func newTaskTransitionCommand(a *app, verb, short string, transition taskTransition) *cobra.Command {
	return withSession(&cobra.Command{
		Use:   verb + " <id>",
		Short: short,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			task, err := transition(a.game, cmd.Context(), id)
			if err != nil {
				return err
			}
			a.printf("Task #%d %q is now %s\n", task.ID, task.Title, label(task.Status))
			return nil
		},
	}, sessionUser)
}

func newTaskCompleteCommand(a *app) *cobra.Command {
	return withSession(&cobra.Command{
		Use:   "complete <id>",
		Short: "Complete a task and collect its rewards",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			res, err := a.game.CompleteTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.writeCompletion(res)
			return nil
		},
	}, sessionUser)
}

func (a *app) writeCompletion(res game.CompletionResult) {
	if res.AlreadyCompleted {
		a.printf("%s\n", a.style.yellow(res.Message))
		return
	}
	a.printf("%s Completed %q\n", a.style.green("✓"), res.Task)
	a.printf("  +%s (total %s)\n", exp(res.ExpGained), exp(res.TotalExp))
	if b := res.StatBoost; b != nil {
		if b.Increased {
			a.printf("  %s +%d → %d\n", b.Stat.Label(), b.Amount, b.NewValue)
		} else {
			a.printf("  %s is already at %d\n", b.Stat.Label(), b.NewValue)
		}
	}
	if res.LeveledUp && res.NewLevel != nil {
		a.printf("  %s You reached level %d!\n", a.style.bold(a.style.yellow("LEVEL UP!")), *res.NewLevel)
	}
	for _, name := range res.CompletedPalaces {
		a.printf("  %s Palace infiltrated: %s\n", a.style.cyan("★"), name)
	}
}
