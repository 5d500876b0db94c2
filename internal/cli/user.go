package cli

import (
	apperrors "github.com/kidandcat/phantomhq/internal/errors"
	"github.com/spf13/cobra"
)

func newInitCommand(a *app) *cobra.Command {
	return withSession(&cobra.Command{
		Use:   "init",
		Short: "Create the database",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printf("Database ready at %s\n", a.cfg.DBPath)
			return nil
		},
	}, sessionStore)
}

func newUserCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage Phantom Thieves",
	}

	create := withSession(&cobra.Command{
		Use:   "create <username>",
		Short: "Register a new user",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.game.CreateUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printf("%s Created user %s (level %d)\n", a.style.green("✓"), a.style.bold(u.Username), u.Level)
			return nil
		},
	}, sessionStore)

	show := withSession(&cobra.Command{
		Use:   "show",
		Short: "Show the active user",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := a.game.CurrentUser()
			a.printf("Username:   %s\n", a.style.bold(u.Username))
			a.printf("Level:      %d\n", u.Level)
			a.printf("Total EXP:  %s\n", exp(u.TotalExp))
			a.printf("Next level: %s to go\n", exp(u.ExpToNextLevel()))
			a.printf("Joined:     %s\n", relative(u.CreatedAt, a.game.Now()))
			return nil
		},
	}, sessionUser)

	var yes bool
	del := withSession(&cobra.Command{
		Use:   "delete",
		Short: "Delete the active user and everything it owns",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := a.game.CurrentUser()
			if !yes {
				return apperrors.Newf(apperrors.CodeInvalidArgument, "refusing to delete user %s without --yes", u.Username)
			}
			if err := a.game.DeleteCurrentUser(cmd.Context()); err != nil {
				return err
			}
			a.printf("Deleted user %s\n", u.Username)
			return nil
		},
	}, sessionUser)
	del.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	cmd.AddCommand(create, show, del)
	return cmd
}
