// Package cli is the phantom command line: flag parsing, input validation and
// terminal rendering around game.GameState.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/kidandcat/phantomhq/internal/config"
	"github.com/kidandcat/phantomhq/internal/db"
	apperrors "github.com/kidandcat/phantomhq/internal/errors"
	"github.com/kidandcat/phantomhq/internal/game"
	"github.com/kidandcat/phantomhq/internal/models"
	"github.com/spf13/cobra"
)

const (
	annotationSession = "phantom/session"
	sessionStore      = "store" // open the database
	sessionUser       = "user"  // open the database and load the user
)

type app struct {
	cfg    config.Config
	out    io.Writer
	errOut io.Writer
	clock  game.Clock
	style  style

	store *db.Store
	game  *game.GameState
}

// Execute runs the command line and returns the process exit status.
func Execute(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) int {
	return run(ctx, &app{cfg: cfg, out: stdout, errOut: stderr, clock: game.RealClock{}}, args)
}

func run(ctx context.Context, a *app, args []string) int {
	defer a.close()

	root := newRootCommand(a)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		log.Printf("command failed: %v", err)
		fmt.Fprintf(a.errOut, "error: %s\n", err)
		return apperrors.CodeOf(err).ExitCode()
	}
	return 0
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:               "phantom",
		Short:             "Turn your tasks into a Phantom Thieves campaign",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.prepare,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid flags", err)
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.DBPath, "db", a.cfg.DBPath, "path to the SQLite database (PHANTOM_DB_PATH)")
	flags.StringVar(&a.cfg.ChartDir, "charts", a.cfg.ChartDir, "directory for generated charts (PHANTOM_CHART_DIR)")
	flags.StringVarP(&a.cfg.User, "user", "u", a.cfg.User, "active user (PHANTOM_USER)")
	flags.StringVar((*string)(&a.cfg.Color), "color", string(a.cfg.Color), "colour output: auto, always or never (PHANTOM_COLOR)")
	flags.BoolVarP(&a.cfg.Verbose, "verbose", "v", a.cfg.Verbose, "log diagnostics to stderr (PHANTOM_VERBOSE)")

	root.AddCommand(
		newInitCommand(a),
		newUserCommand(a),
		newTaskCommand(a),
		newPalaceCommand(a),
		newStatsCommand(a),
		newDashboardCommand(a),
		newChartsCommand(a),
	)
	return root
}

// prepare applies flag overrides and opens the session the command asks for.
func (a *app) prepare(cmd *cobra.Command, _ []string) error {
	a.cfg.Color = config.ColorMode(strings.ToLower(string(a.cfg.Color)))
	if err := a.cfg.Validate(); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid configuration", err)
	}
	if a.cfg.Verbose {
		log.SetOutput(a.errOut)
	} else {
		log.SetOutput(io.Discard)
	}
	a.style = newStyle(a.cfg.Color, a.out)

	session := cmd.Annotations[annotationSession]
	if session == "" {
		return nil
	}

	store, err := db.Open(a.cfg.DBPath)
	if err != nil {
		return apperrors.Wrap(apperrors.CodePersistence, "open database", err)
	}
	a.store = store
	a.game = game.New(store, a.clock)

	if session != sessionUser {
		return nil
	}
	username := strings.TrimSpace(a.cfg.User)
	if username == "" {
		return apperrors.New(apperrors.CodeNoActiveUser, "no user selected: pass --user or set PHANTOM_USER")
	}
	_, err = a.game.LoadUser(cmd.Context(), username)
	return err
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		log.Printf("error closing database: %v", err)
	}
	a.store = nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func withSession(cmd *cobra.Command, session string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationSession] = session
	return cmd
}

// exactArgs is cobra.ExactArgs reporting a usage error code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return apperrors.Wrap(apperrors.CodeInvalidArgument, "usage: "+cmd.UseLine(), err)
		}
		return nil
	}
}

func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Newf(apperrors.CodeInvalidArgument, "invalid %s id %q", kind, s)
	}
	return id, nil
}

// parseDeadline accepts an empty string as "no deadline".
func parseDeadline(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid --deadline", err)
	}
	return &d, nil
}
