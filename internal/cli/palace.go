package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/kidandcat/phantomhq/internal/errors"
	"github.com/kidandcat/phantomhq/internal/game"
	"github.com/kidandcat/phantomhq/internal/models"
	"github.com/spf13/cobra"
)

const (
	maxPalaceNameRunes = 23
	maxBossRunes       = 18
)

func newPalaceCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palace",
		Short: "Manage palaces, your long-term goals",
	}
	cmd.AddCommand(newPalaceAddCommand(a), newPalaceListCommand(a), newPalaceAbandonCommand(a), newPalaceSyncCommand(a))
	return cmd
}

func newPalaceAddCommand(a *app) *cobra.Command {
	var description, boss, deadline string
	cmd := withSession(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a palace to infiltrate",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[0]) == "" {
				return apperrors.New(apperrors.CodeInvalidArgument, "palace name is required")
			}
			due, err := parseDeadline(deadline)
			if err != nil {
				return err
			}
			p, err := a.game.CreatePalace(cmd.Context(), game.NewPalace{
				Name:        args[0],
				Description: description,
				BossName:    boss,
				Deadline:    due,
			})
			if err != nil {
				return err
			}
			a.printf("%s Added palace #%d %q\n", a.style.green("✓"), p.ID, p.Name)
			return nil
		},
	}, sessionUser)

	f := cmd.Flags()
	f.StringVar(&description, "description", "", "optional description")
	f.StringVar(&boss, "boss", "", "the shadow ruling this palace")
	f.StringVar(&deadline, "deadline", "", "target date as YYYY-MM-DD")
	return cmd
}

func newPalaceListCommand(a *app) *cobra.Command {
	var status string
	cmd := withSession(&cobra.Command{
		Use:   "list",
		Short: "List palaces",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := models.ParsePalaceStatus(status)
			if err != nil {
				return apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid --status (one of: active, completed, abandoned)", err)
			}
			palaces, err := a.game.PalacesByStatus(cmd.Context(), s)
			if err != nil {
				return err
			}
			if len(palaces) == 0 {
				a.printf("No %s palaces.\n", s)
				return nil
			}
			writePalaces(a.out, palaces, a.game.Today())
			return nil
		},
	}, sessionUser)
	cmd.Flags().StringVarP(&status, "status", "s", models.PalaceActive.String(), "status filter: active, completed or abandoned")
	return cmd
}

func writePalaces(w io.Writer, palaces []models.Palace, today time.Time) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tBOSS\tINFILTRATION\tSTATUS\tDEADLINE\tDAYS LEFT\t")
	for i := range palaces {
		info := game.PalaceStatus(&palaces[i], today)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s %s\t%s\t%s\t%s\t%s\n",
			palaces[i].ID,
			truncate(info.Name, maxPalaceNameRunes),
			truncate(info.Boss, maxBossRunes),
			meter(int(palaces[i].Infiltration), 100, 10), info.Infiltration,
			titleCaser.String(info.Status),
			info.Deadline,
			info.DaysRemaining,
			info.Warning,
		)
	}
	tw.Flush()
}

func newPalaceAbandonCommand(a *app) *cobra.Command {
	return withSession(&cobra.Command{
		Use:   "abandon <id>",
		Short: "Give up on an active palace",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("palace", args[0])
			if err != nil {
				return err
			}
			p, err := a.game.AbandonPalace(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.printf("Abandoned palace #%d %q at %.1f%%\n", p.ID, p.Name, p.Infiltration)
			return nil
		},
	}, sessionUser)
}

func newPalaceSyncCommand(a *app) *cobra.Command {
	return withSession(&cobra.Command{
		Use:   "sync",
		Short: "Recompute infiltration of every active palace",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			palaces, err := a.game.RecomputePalaces(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range palaces {
				a.printf("%s %.1f%% (%s)\n", p.Name, p.Infiltration, p.Status)
			}
			a.printf("Synced %d palace(s)\n", len(palaces))
			return nil
		},
	}, sessionUser)
}
