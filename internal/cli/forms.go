package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/canteiro/internal/cli/formatter"
	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func canteiroHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := domain.ParseDate(s); err != nil {
		return fmt.Errorf("use DD/MM/YYYY or YYYY-MM-DD")
	}
	return nil
}

// validateOptionalProgress accepts empty or an integer within 0..100.
func validateOptionalProgress(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < domain.MinProgress || v > domain.MaxProgress {
		return fmt.Errorf("enter a number from 0 to 100")
	}
	return nil
}

func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("31/03/2025").
		Value(value).
		Validate(validateDate)
}

// projectFormValues backs the interactive `project add` form.
type projectFormValues struct {
	ShortID    string
	Name       string
	Location   string
	Start      string
	Completion string
}

func projectForm(v *projectFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Short ID").Placeholder("AUR01").Value(&v.ShortID).
				Validate(func(s string) error {
					p := domain.Project{ShortID: strings.ToUpper(s)}
					return p.ValidateShortID()
				}),
			huh.NewInput().Title("Project Name").Value(&v.Name).Validate(validateRequired),
			huh.NewInput().Title("Location").Value(&v.Location),
			dateInput("Start Date", &v.Start),
			dateInput("Planned Completion", &v.Completion),
		),
	).WithTheme(canteiroHuhTheme()).WithShowHelp(false)
}

// taskFormValues backs the interactive `task add` form.
type taskFormValues struct {
	Name        string
	Start       string
	End         string
	Responsible string
	Progress    string
}

func taskForm(v *taskFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task Name").Value(&v.Name).Validate(validateRequired),
			dateInput("Start Date", &v.Start),
			dateInput("End Date", &v.End),
			huh.NewInput().Title("Responsible").Value(&v.Responsible).Validate(validateRequired),
			huh.NewInput().Title("Progress % (blank for 0)").Value(&v.Progress).Validate(validateOptionalProgress),
		),
	).WithTheme(canteiroHuhTheme()).WithShowHelp(false)
}

func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(canteiroHuhTheme()).WithShowHelp(false)
}
