package cli

import (
	"fmt"

	"github.com/alexanderramin/canteiro/internal/app"
	"github.com/alexanderramin/canteiro/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *App) *cobra.Command {
	var projects []string
	var all bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show schedule adherence across projects, riskiest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.NewStatusRequest()
			now := a.now()
			req.Now = &now
			req.IncludeArchived = all
			for _, input := range projects {
				id, err := resolveProjectID(cmd.Context(), a, input)
				if err != nil {
					return err
				}
				req.ProjectScope = append(req.ProjectScope, id)
			}

			resp, err := a.Status.GetStatus(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatus(resp))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&projects, "project", nil, "Limit to these projects (short ID or UUID; repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")

	return cmd
}
