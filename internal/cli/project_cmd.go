package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/canteiro/internal/cli/formatter"
	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/spf13/cobra"
)

const inspectEventLimit = 10

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectInspectCmd(app),
		newProjectUpdateCmd(app),
		newProjectArchiveCmd(app),
		newProjectUnarchiveCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, location, shortID string
	var start, completion dateValue

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (shortID == "" || name == "" || !start.set || !completion.set) && app.interactive() {
				v := projectFormValues{ShortID: shortID, Name: name, Location: location, Start: start.String(), Completion: completion.String()}
				if err := projectForm(&v).Run(); err != nil {
					return err
				}
				shortID, name, location = v.ShortID, v.Name, v.Location
				if err := start.Set(v.Start); err != nil {
					return err
				}
				if err := completion.Set(v.Completion); err != nil {
					return err
				}
			}
			if err := requireFlags(map[string]bool{
				"id":         shortID != "",
				"name":       name != "",
				"start":      start.set,
				"completion": completion.set,
			}); err != nil {
				return err
			}

			p := &domain.Project{
				ShortID:           strings.ToUpper(shortID),
				Name:              name,
				Location:          location,
				StartDate:         start.t,
				PlannedCompletion: completion.t,
			}
			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. AUR01)")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&location, "location", "", "Site location")
	cmd.Flags().Var(&start, "start", "Start date (DD/MM/YYYY or YYYY-MM-DD)")
	cmd.Flags().Var(&completion, "completion", "Planned completion date (DD/MM/YYYY or YYYY-MM-DD)")

	return cmd
}

// requireFlags reports every missing flag at once, in a stable order.
func requireFlags(present map[string]bool) error {
	var missing []string
	for _, name := range []string{"id", "name", "start", "end", "completion", "responsible"} {
		if ok, known := present[name]; known && !ok {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required flag(s) %s not set", strings.Join(missing, ", "))
	}
	return nil
}

func newProjectListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context(), all)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectList(projects, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")

	return cmd
}

func newProjectInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show project details, adherence, timeline and recent events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, err := loadInspection(ctx, app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatProjectInspect(in, app.now()))
			return nil
		},
	}
}

func loadInspection(ctx context.Context, app *App, input string) (formatter.ProjectInspection, error) {
	projectID, err := resolveProjectID(ctx, app, input)
	if err != nil {
		return formatter.ProjectInspection{}, err
	}
	p, err := app.Projects.GetByID(ctx, projectID)
	if err != nil {
		return formatter.ProjectInspection{}, err
	}
	tasks, err := app.Timeline.ListTasks(ctx, projectID, false)
	if err != nil {
		return formatter.ProjectInspection{}, err
	}
	snap, err := app.Timeline.GetAdherence(ctx, projectID)
	if err != nil {
		return formatter.ProjectInspection{}, err
	}
	events, err := app.Timeline.ListEvents(ctx, projectID, inspectEventLimit)
	if err != nil {
		return formatter.ProjectInspection{}, err
	}
	return formatter.ProjectInspection{
		Project:   p,
		Tasks:     tasks,
		Adherence: *snap,
		Events:    derefEvents(events),
	}, nil
}

func derefEvents(events []*domain.TimelineEvent) []domain.TimelineEvent {
	out := make([]domain.TimelineEvent, len(events))
	for i, e := range events {
		out[i] = *e
	}
	return out
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, location, status, shortID string
	var start, completion dateValue

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, projectID)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("id") {
				p.ShortID = strings.ToUpper(shortID)
			}
			if cmd.Flags().Changed("name") {
				p.Name = name
			}
			if cmd.Flags().Changed("location") {
				p.Location = location
			}
			if start.set {
				p.StartDate = start.t
			}
			if completion.set {
				p.PlannedCompletion = completion.t
			}
			if cmd.Flags().Changed("status") {
				switch s := domain.ProjectStatus(status); s {
				case domain.ProjectActive, domain.ProjectPaused, domain.ProjectDone:
					p.Status = s
				default:
					return fmt.Errorf("invalid status %q (use active, paused or done; archive with `project archive`)", status)
				}
			}

			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits)")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&location, "location", "", "Site location")
	cmd.Flags().Var(&start, "start", "Start date")
	cmd.Flags().Var(&completion, "completion", "Planned completion date")
	cmd.Flags().StringVar(&status, "status", "", "Project status (active|paused|done)")

	return cmd
}

func newProjectArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Archive(ctx, projectID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived project %s\n", args[0])
			return nil
		},
	}
}

func newProjectUnarchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unarchive ID",
		Short: "Unarchive a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Unarchive(ctx, projectID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unarchived project %s\n", args[0])
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a project and its timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if force && app.interactive() {
				confirmed := false
				if err := confirmForm(fmt.Sprintf("Delete %s and its whole timeline?", args[0]), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			if err := app.Projects.Delete(ctx, projectID, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Remove even if the project is not archived")

	return cmd
}
