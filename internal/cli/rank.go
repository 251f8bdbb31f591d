package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"taskpilot/internal/scoring"
	"taskpilot/pkg/types"
)

func newRankCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Print a user's open tasks in priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, store, svc, _, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			open, err := store.TaskStore().ListOpen(ctx, user)
			if err != nil {
				return err
			}
			if len(open) == 0 {
				color.Yellow("no open tasks for %s", user)
				return nil
			}

			ranked := svc.RankPending(ctx, user, open)
			if ranked[0].Source == scoring.ScoreSourceRules {
				color.Yellow("heuristic scores (%s)", ranked[0].Fallback)
			} else {
				color.Green("model scores")
			}
			for i, r := range ranked {
				fmt.Printf("%2d. %s %7.2f  %s\n",
					i+1, levelColor(r.Task.PriorityLevel), r.Score, r.Task.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "user ID to rank tasks for")
	if err := cmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("mark flag required: %v", err))
	}
	return cmd
}

func levelColor(level types.PriorityLevel) string {
	switch level {
	case types.PriorityHigh:
		return color.RedString("[high]  ")
	case types.PriorityMedium:
		return color.YellowString("[medium]")
	default:
		return color.GreenString("[low]   ")
	}
}
