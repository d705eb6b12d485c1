package interpreter

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alexanderramin/canteiro/internal/domain"
)

// Kind classifies what a field report said about a task.
type Kind string

const (
	KindDelay    Kind = "delay"
	KindProgress Kind = "progress"
)

const noteTimeLayout = "02/01/2006 15:04"

// Outcome is the transition inferred from one report. It is plain data;
// applying it is the caller's job.
type Outcome struct {
	TaskID       string
	TaskName     string
	Kind         Kind
	Keyword      string
	PrevStatus   domain.TaskStatus
	PrevProgress int
	NewStatus    domain.TaskStatus
	NewProgress  int
	Note         string

	EventTitle       string
	EventDescription string
	IsDelayed        bool
}

type Interpreter struct {
	rules Rules
}

func New(rules Rules) *Interpreter {
	return &Interpreter{rules: rules.withDefaults()}
}

func (in *Interpreter) Rules() Rules {
	return in.rules
}

// Interpret maps a report onto the first task, in the given order, whose
// name it mentions. It returns nil when no task matches, when the report
// carries no keyword, or when the matched task is already completed. The
// scan stops at the first match either way.
func (in *Interpreter) Interpret(report domain.FieldReport, tasks []domain.TimelineTask) *Outcome {
	text := strings.ToLower(report.Text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	idx := in.MatchTask(report.Text, tasks)
	if idx < 0 {
		return nil
	}
	task := tasks[idx]

	kind, keyword := in.classify(text)
	if kind == "" {
		return nil
	}
	if task.Status.IsTerminal() {
		return nil
	}

	out := &Outcome{
		TaskID:       task.ID,
		TaskName:     task.Name,
		Kind:         kind,
		Keyword:      keyword,
		PrevStatus:   task.Status,
		PrevProgress: task.Progress,
		Note:         formatNote(report),
	}

	author := authorOrDefault(report.AuthorName)
	switch kind {
	case KindDelay:
		out.NewStatus = domain.StatusDelayed
		out.NewProgress = task.Progress
		out.IsDelayed = true
		out.EventTitle = fmt.Sprintf("Delay reported on %s", task.Name)
	case KindProgress:
		out.NewProgress = min(task.Progress+in.rules.ProgressIncrement, domain.MaxProgress)
		if out.NewProgress == domain.MaxProgress {
			out.NewStatus = domain.StatusCompleted
			out.EventTitle = fmt.Sprintf("%s completed", task.Name)
		} else {
			out.NewStatus = domain.StatusInProgress
			out.EventTitle = fmt.Sprintf("%s advanced to %d%%", task.Name, out.NewProgress)
		}
	}
	out.EventDescription = fmt.Sprintf("%s: %s", author, strings.TrimSpace(report.Text))
	return out
}

// MatchTask returns the index of the first task the text refers to, or -1.
func (in *Interpreter) MatchTask(text string, tasks []domain.TimelineTask) int {
	lower := strings.ToLower(text)
	for i := range tasks {
		if in.matches(lower, tasks[i].Name) {
			return i
		}
	}
	return -1
}

func (in *Interpreter) matches(lowerText, taskName string) bool {
	name := strings.ToLower(strings.TrimSpace(taskName))
	if name == "" {
		return false
	}
	if strings.Contains(lowerText, name) {
		return true
	}

	hits := 0
	for _, w := range significantWords(name, in.rules.MinWordLength) {
		if strings.Contains(lowerText, w) {
			hits++
			if hits >= in.rules.MinWordMatches {
				return true
			}
		}
	}
	return false
}

// classify checks delay keywords before progress keywords.
func (in *Interpreter) classify(lowerText string) (Kind, string) {
	for _, kw := range in.rules.DelayKeywords {
		if kw != "" && strings.Contains(lowerText, strings.ToLower(kw)) {
			return KindDelay, kw
		}
	}
	for _, kw := range in.rules.ProgressKeywords {
		if kw != "" && strings.Contains(lowerText, strings.ToLower(kw)) {
			return KindProgress, kw
		}
	}
	return "", ""
}

// significantWords splits a lowercased name into distinct words longer
// than minLen runes, with surrounding punctuation stripped.
func significantWords(name string, minLen int) []string {
	seen := make(map[string]bool)
	var words []string
	for _, f := range strings.Fields(name) {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if utf8.RuneCountInString(w) <= minLen || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}

func formatNote(report domain.FieldReport) string {
	return fmt.Sprintf("[%s] %s: %s",
		report.SentAt.Format(noteTimeLayout),
		authorOrDefault(report.AuthorName),
		strings.TrimSpace(report.Text))
}

func authorOrDefault(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Field report"
	}
	return strings.TrimSpace(name)
}
