package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/canteiro/internal/app"
	"github.com/alexanderramin/canteiro/internal/cli/formatter"
	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the tasks of a project timeline",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskUpdateCmd(app),
		newTaskDeleteCmd(app),
		newTaskImportCmd(app),
	)

	return cmd
}

func newTaskAddCmd(a *App) *cobra.Command {
	var name, responsible, description string
	var progress int
	var start, end dateValue
	var status statusValue

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add a task to the end of the timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}

			progressPtr := changedInt(cmd.Flags(), "progress", progress)
			if (name == "" || !start.set || !end.set || responsible == "") && a.interactive() {
				v := taskFormValues{Name: name, Start: start.String(), End: end.String(), Responsible: responsible}
				if err := taskForm(&v).Run(); err != nil {
					return err
				}
				name, responsible = v.Name, v.Responsible
				if err := start.Set(v.Start); err != nil {
					return err
				}
				if err := end.Set(v.End); err != nil {
					return err
				}
				if v.Progress != "" {
					n, _ := strconv.Atoi(v.Progress)
					progressPtr = &n
				}
			}
			if err := requireFlags(map[string]bool{
				"name":        name != "",
				"start":       start.set,
				"end":         end.set,
				"responsible": responsible != "",
			}); err != nil {
				return err
			}

			draft := domain.TaskDraft{
				Name:              name,
				StartDate:         start.t,
				EndDate:           end.t,
				ResponsiblePerson: responsible,
				Description:       description,
				Progress:          progressPtr,
			}
			if status.set {
				draft.Status = &status.s
			}

			res, err := a.Timeline.AddTask(ctx, projectID, draft)
			if err != nil {
				return err
			}
			printTaskResult(cmd, "Added", res)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().Var(&start, "start", "Start date (DD/MM/YYYY or YYYY-MM-DD)")
	cmd.Flags().Var(&end, "end", "End date (DD/MM/YYYY or YYYY-MM-DD)")
	cmd.Flags().StringVar(&responsible, "responsible", "", "Person responsible on site")
	cmd.Flags().StringVar(&description, "description", "", "Free-text description")
	cmd.Flags().IntVar(&progress, "progress", 0, "Initial progress (0-100)")
	cmd.Flags().Var(&status, "status", "Initial status (not_started|in_progress|delayed|completed)")

	return cmd
}

func printTaskResult(cmd *cobra.Command, verb string, res *app.TaskResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s task #%d %s\n", verb, res.Task.Seq, res.Task.Name)
	fmt.Fprintln(out, formatter.FormatAdherenceLine(res.Adherence))
}

func newTaskListCmd(a *App) *cobra.Command {
	var byStart bool

	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List the timeline in insertion order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}
			tasks, err := a.Timeline.ListTasks(ctx, projectID, byStart)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks, a.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&byStart, "by-start", false, "Order by start date instead of insertion order")

	return cmd
}

func newTaskShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT TASK",
		Short: "Show one task with its notes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(ctx, a, projectID, args[1])
			if err != nil {
				return err
			}
			tasks, err := a.Timeline.ListTasks(ctx, projectID, false)
			if err != nil {
				return err
			}
			for _, t := range tasks {
				if t.ID == taskID {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatTaskDetail(t, a.now()))
					return nil
				}
			}
			return fmt.Errorf("task %s: %w", args[1], domain.ErrNotFound)
		},
	}
}

func newTaskUpdateCmd(a *App) *cobra.Command {
	var name, responsible, description string
	var progress int
	var start, end dateValue
	var status statusValue

	cmd := &cobra.Command{
		Use:   "update PROJECT TASK",
		Short: "Change fields of a task; unset flags are kept",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(ctx, a, projectID, args[1])
			if err != nil {
				return err
			}

			fs := cmd.Flags()
			patch := domain.TaskPatch{
				Name:              changedString(fs, "name", name),
				ResponsiblePerson: changedString(fs, "responsible", responsible),
				Description:       changedString(fs, "description", description),
				Progress:          changedInt(fs, "progress", progress),
			}
			if start.set {
				patch.StartDate = &start.t
			}
			if end.set {
				patch.EndDate = &end.t
			}
			if status.set {
				patch.Status = &status.s
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update (pass at least one flag)")
			}

			res, err := a.Timeline.UpdateTask(ctx, projectID, taskID, patch)
			if err != nil {
				return err
			}
			printTaskResult(cmd, "Updated", res)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().Var(&start, "start", "Start date")
	cmd.Flags().Var(&end, "end", "End date")
	cmd.Flags().StringVar(&responsible, "responsible", "", "Person responsible on site")
	cmd.Flags().StringVar(&description, "description", "", "Free-text description (replaces notes)")
	cmd.Flags().IntVar(&progress, "progress", 0, "Progress (0-100)")
	cmd.Flags().Var(&status, "status", "Status (not_started|in_progress|delayed|completed)")

	return cmd
}

func newTaskDeleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete PROJECT TASK",
		Short: "Remove a task from the timeline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(ctx, a, projectID, args[1])
			if err != nil {
				return err
			}
			res, err := a.Timeline.DeleteTask(ctx, projectID, taskID)
			if err != nil {
				return err
			}
			printTaskResult(cmd, "Deleted", res)
			return nil
		},
	}
}

func newTaskImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import PROJECT FILE",
		Short: "Append tasks from a JSON or YAML file, all or nothing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}
			res, err := a.Timeline.ImportTasks(ctx, projectID, args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d tasks\n", len(res.Tasks))
			fmt.Fprintln(out, formatter.FormatAdherenceLine(res.Adherence))
			return nil
		},
	}
}
