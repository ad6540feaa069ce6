package cli

import (
	"seller-cli/internal/model"

	"github.com/spf13/cobra"
)

func newQueueCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Queue (time slot) settings",
	}
	cmd.AddCommand(newQueueShowCmd(app))
	cmd.AddCommand(newQueueSetCmd(app))
	return cmd
}

func newQueueShowCmd(app *App) *cobra.Command {
	var branchID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the branch's time slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			if branchID == "" {
				id, ok := app.sess.BranchID()
				if !ok {
					return writeErr(cmd, missingClaimError{claim: "branch_id"})
				}
				branchID = id
			}
			slots, err := app.client.TimeSlots(cmd.Context(), branchID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": slots})
		},
	}

	cmd.Flags().StringVar(&branchID, "branch", "", "Branch id (default: from the session token)")
	return cmd
}

func newQueueSetCmd(app *App) *cobra.Command {
	q := model.QueueSettings{Open: true}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save queue settings as a time slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := q.TimeSlot()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := requireLogin(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			res, err := app.client.SaveTimeSlot(cmd.Context(), ts)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": resultData(res),
				"meta": map[string]any{"timeSlot": ts, "open": q.Open},
			})
		},
	}

	cmd.Flags().IntVar(&q.MaxQueue, "max-queue", 5, "Orders per round (1-10)")
	cmd.Flags().IntVar(&q.RoundsPerHour, "rounds", 2, "Rounds per hour (1-4)")
	cmd.Flags().StringVar(&q.StartAt, "start", "09:00:00", "Opening time (HH:mm:ss)")
	cmd.Flags().StringVar(&q.EndAt, "end", "18:00:00", "Closing time (HH:mm:ss)")
	cmd.Flags().BoolVar(&q.Open, "open", true, "Whether the queue accepts orders")
	return cmd
}
