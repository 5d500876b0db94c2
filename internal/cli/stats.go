package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/kidandcat/phantomhq/internal/charts"
	"github.com/kidandcat/phantomhq/internal/game"
	"github.com/kidandcat/phantomhq/internal/models"
	"github.com/spf13/cobra"
)

const dashboardTasks = 5

func newStatsCommand(a *app) *cobra.Command {
	return withSession(&cobra.Command{
		Use:   "stats",
		Short: "Show statistics and ranks",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := a.game.StatsSummary(cmd.Context())
			if err != nil {
				return err
			}
			a.writeStats(summary)
			return nil
		},
	}, sessionUser)
}

func (a *app) writeStats(s game.StatsSummary) {
	values := s.Map()
	tw := newTable(a.out)
	fmt.Fprintln(tw, "STAT\tVALUE\t\tRANK")
	for _, e := range s.Ranks() {
		v := values[e.Stat.Label()]
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", e.Stat.Label(), v, meter(v, models.MaxStat, 20), e.Rank)
	}
	fmt.Fprintf(tw, "Total\t%d\t\t\n", values["Total"])
	tw.Flush()
}

func newDashboardCommand(a *app) *cobra.Command {
	return withSession(&cobra.Command{
		Use:   "dashboard",
		Short: "Profile, statistics, pending tasks and active palaces",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u := a.game.CurrentUser()
			summary, err := a.game.StatsSummary(ctx)
			if err != nil {
				return err
			}
			pending, err := a.game.PendingTasks(ctx)
			if err != nil {
				return err
			}
			palaces, err := a.game.ActivePalaces(ctx)
			if err != nil {
				return err
			}

			a.printf("%s, %s-level Phantom Thief\n", a.style.bold(a.style.red(u.Username)), humanize.Ordinal(u.Level))
			a.printf("%s %s  %s to level %d\n\n",
				meter(models.ExpPerLevel-u.ExpToNextLevel(), models.ExpPerLevel, 20), exp(u.TotalExp),
				exp(u.ExpToNextLevel()), u.Level+1)

			a.printf("%s\n", a.style.cyan("Statistics"))
			a.writeStats(summary)

			a.printf("\n%s\n", a.style.cyan("Pending tasks"))
			switch {
			case len(pending) == 0:
				a.printf("%s\n", a.style.dim("No pending tasks."))
			default:
				shown := pending[:min(dashboardTasks, len(pending))]
				writeTasks(a.out, shown, a.game.Today(), a.game.Now())
				if more := len(pending) - len(shown); more > 0 {
					a.printf("%s\n", a.style.dim(fmt.Sprintf("... and %d more", more)))
				}
			}

			a.printf("\n%s\n", a.style.cyan("Active palaces"))
			if len(palaces) == 0 {
				a.printf("%s\n", a.style.dim("No active palaces."))
				return nil
			}
			writePalaces(a.out, palaces, a.game.Today())
			return nil
		},
	}, sessionUser)
}

func newChartsCommand(a *app) *cobra.Command {
	return withSession(&cobra.Command{
		Use:   "charts",
		Short: "Write SVG progress charts",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			summary, err := a.game.StatsSummary(ctx)
			if err != nil {
				return err
			}
			progress, err := a.game.PalaceProgress(ctx)
			if err != nil {
				return err
			}
			history, err := a.game.ExpHistory(ctx)
			if err != nil {
				return err
			}

			gen := charts.Generator{Dir: a.cfg.ChartDir}
			paths, err := gen.GenerateAll(charts.Input{
				Username: a.game.CurrentUser().Username,
				Stats:    summary,
				Palaces:  progress,
				Exp:      history,
			})
			for _, p := range paths {
				a.printf("%s %s\n", a.style.green("✓"), p)
			}
			if err != nil {
				return err
			}
			if len(progress) == 0 {
				a.printf("%s\n", a.style.dim("Skipped palace chart: no active palaces."))
			}
			if len(history) == 0 {
				a.printf("%s\n", a.style.dim("Skipped EXP chart: no completed tasks."))
			}
			return nil
		},
	}, sessionUser)
}
