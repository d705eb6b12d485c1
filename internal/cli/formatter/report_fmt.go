package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/canteiro/internal/app"
	"github.com/alexanderramin/canteiro/internal/interpreter"
)

// FormatReportResult renders what a single field report changed.
func FormatReportResult(r *app.ReportResult) string {
	if !r.Applied() {
		return Dim("No task matched; timeline unchanged.") + "\n"
	}
	var b strings.Builder
	b.WriteString(formatOutcome(*r.Outcome))
	b.WriteString(FormatAdherenceLine(r.Adherence) + "\n")
	return b.String()
}

func formatOutcome(o interpreter.Outcome) string {
	marker := StyleGreen.Render("●")
	if o.Kind == interpreter.KindDelay {
		marker = StyleRed.Render(delayMarker)
	}
	change := fmt.Sprintf("%s %d%% → %s %d%%",
		o.PrevStatus.Label(), o.PrevProgress, o.NewStatus.Label(), o.NewProgress)
	return fmt.Sprintf("%s %s  %s %s\n",
		marker, Bold(o.TaskName), Dim(change), StylePurple.Render("("+o.Keyword+")"))
}

// FormatChatImport renders the outcome of a chat export import.
func FormatChatImport(r *app.ChatImportResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %d messages, %s applied, %s ignored\n",
		Bold("Imported"), r.Total,
		StyleGreen.Render(fmt.Sprintf("%d", r.Applied)),
		Dim(fmt.Sprintf("%d", r.Ignored))))
	for _, o := range r.Outcomes {
		b.WriteString("  " + formatOutcome(o))
	}
	if r.Total > 0 {
		b.WriteString(FormatAdherenceLine(r.Adherence) + "\n")
	}
	return b.String()
}
