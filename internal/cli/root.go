package cli

import (
	"time"

	"github.com/alexanderramin/canteiro/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Timeline service.TimelineService
	Status   service.StatusService

	// IsInteractive reports whether missing inputs may be prompted for.
	// Nil means never prompt.
	IsInteractive func() bool
	// Now is the clock used for relative dates; nil means time.Now.
	Now func() time.Time
	// Location is the zone chat exports are written in; nil means UTC.
	Location      *time.Location
	InboxDebounce time.Duration
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "canteiro" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "canteiro",
		Short:         "Construction timeline and schedule adherence tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newReportCmd(app),
		newStatusCmd(app),
		newEventsCmd(app),
	)

	return root
}
