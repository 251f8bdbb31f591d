package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTrainCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the priority model for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, store, svc, _, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			outcome := svc.Train(ctx, user)
			if outcome.Trained {
				color.Green("model trained for %s (%d completed tasks)", user, outcome.SamplesUsed)
			} else {
				color.Yellow("not trained: %s (%d completed tasks, need at least 2)",
					outcome.Reason, outcome.SamplesUsed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "user ID to train for")
	if err := cmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("mark flag required: %v", err))
	}
	return cmd
}
