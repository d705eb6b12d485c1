package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/canteiro/internal/chatlog"
	"github.com/alexanderramin/canteiro/internal/cli/formatter"
	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/alexanderramin/canteiro/internal/watch"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Apply field reports to a timeline",
	}

	cmd.AddCommand(
		newReportSendCmd(app),
		newReportImportCmd(app),
		newReportWatchCmd(app),
	)

	return cmd
}

func newReportSendCmd(app *App) *cobra.Command {
	var author, at string

	cmd := &cobra.Command{
		Use:   "send PROJECT MESSAGE...",
		Short: "Interpret one field message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			sentAt := app.now()
			if at != "" {
				t, err := time.ParseInLocation("02/01/2006 15:04", at, chatLocation(app))
				if err != nil {
					return fmt.Errorf("invalid --at %q (expected DD/MM/YYYY HH:MM): %w", at, err)
				}
				sentAt = t
			}

			res, err := app.Timeline.Interpret(ctx, projectID, domain.FieldReport{
				AuthorName: author,
				Text:       strings.Join(args[1:], " "),
				SentAt:     sentAt,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReportResult(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Who sent the message")
	cmd.Flags().StringVar(&at, "at", "", "When it was sent (DD/MM/YYYY HH:MM); defaults to now")

	return cmd
}

func newReportImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import PROJECT FILE",
		Short: "Apply every message of a chat export in one transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			reports, err := chatlog.ParseFile(args[1], chatLocation(app))
			if err != nil {
				return err
			}
			res, err := app.Timeline.ImportChat(ctx, projectID, reports)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatChatImport(res))
			return nil
		},
	}
}

func newReportWatchCmd(app *App) *cobra.Command {
	var skipExisting bool

	cmd := &cobra.Command{
		Use:   "watch PROJECT DIR",
		Short: "Apply chat exports as they land in a directory",
		Long: `Watches DIR for chat exports (*.txt). Each file is applied once it stops
changing. When an export is overwritten by a longer one, only the new
messages are applied.

Applied counts live only as long as the process. Restarting the watch
re-applies every message in files already in DIR, so progress reports
count twice. Pass --skip-existing when restarting over a directory that
was already imported.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			feed := newChatFeed(app, projectID, cmd.OutOrStdout(), cmd.ErrOrStderr())
			inbox, err := watch.NewInbox(args[1], app.InboxDebounce, nil, feed.Handle)
			if err != nil {
				return err
			}

			existing, err := inbox.Existing()
			if err != nil {
				return err
			}
			for _, path := range existing {
				if skipExisting {
					if err := feed.MarkSeen(path); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", filepath.Base(path), err)
					}
					continue
				}
				feed.Handle(ctx, path)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", args[1])
			if err := inbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Treat files already in DIR as applied")

	return cmd
}

// chatFeed applies chat exports to one project. Exports grow by appending,
// so it remembers how many messages of each file were already applied and
// only sends the rest.
type chatFeed struct {
	app       *App
	projectID string
	out       io.Writer
	errOut    io.Writer

	mu   sync.Mutex
	seen map[string]int
}

func newChatFeed(app *App, projectID string, out, errOut io.Writer) *chatFeed {
	return &chatFeed{
		app:       app,
		projectID: projectID,
		out:       out,
		errOut:    errOut,
		seen:      make(map[string]int),
	}
}

// Handle applies the unseen tail of the export at path. Failures are
// reported and leave the seen count untouched so the next write retries.
func (f *chatFeed) Handle(ctx context.Context, path string) {
	if err := f.apply(ctx, path); err != nil {
		fmt.Fprintf(f.errOut, "%s: %v\n", filepath.Base(path), err)
	}
}

func (f *chatFeed) apply(ctx context.Context, path string) error {
	reports, err := chatlog.ParseFile(path, chatLocation(f.app))
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	from := f.seen[path]
	if from > len(reports) {
		// replaced by a different export
		from = 0
	}
	fresh := reports[from:]
	if len(fresh) == 0 {
		return nil
	}

	res, err := f.app.Timeline.ImportChat(ctx, f.projectID, fresh)
	if err != nil {
		return err
	}
	f.seen[path] = len(reports)

	fmt.Fprintf(f.out, "%s\n", formatter.Bold(filepath.Base(path)))
	fmt.Fprint(f.out, formatter.FormatChatImport(res))
	return nil
}

// MarkSeen records every message currently in path as applied.
func (f *chatFeed) MarkSeen(path string) error {
	reports, err := chatlog.ParseFile(path, chatLocation(f.app))
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.seen[path] = len(reports)
	f.mu.Unlock()
	return nil
}

func chatLocation(app *App) *time.Location {
	if app.Location != nil {
		return app.Location
	}
	return time.UTC
}
