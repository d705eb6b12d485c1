package cli

import (
	"fmt"

	"github.com/alexanderramin/canteiro/internal/cli/formatter"
	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events [PROJECT]",
		Short: "Show the event feed, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				events []*domain.TimelineEvent
				err    error
			)
			if len(args) == 1 {
				projectID, rerr := resolveProjectID(ctx, app, args[0])
				if rerr != nil {
					return rerr
				}
				events, err = app.Timeline.ListEvents(ctx, projectID, limit)
			} else {
				events, err = app.Timeline.ListRecentEvents(ctx, limit)
			}
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEvents(derefEvents(events)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of events")

	return cmd
}
