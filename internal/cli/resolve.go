package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}

	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}

	// 1. Exact short ID match (case-insensitive)
	for _, p := range projects {
		if strings.EqualFold(p.ShortID, input) {
			return p.ID, nil
		}
	}

	// 2. Exact UUID match
	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}

	// 3. UUID prefix match
	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveTaskID resolves a task identifier which can be:
//   - A numeric seq, as shown by `task list`
//   - A task UUID (passed through directly)
func resolveTaskID(ctx context.Context, app *App, projectID, input string) (string, error) {
	input = strings.TrimPrefix(input, "#")
	if seq, err := strconv.Atoi(input); err == nil && seq > 0 {
		t, err := app.Timeline.GetTaskBySeq(ctx, projectID, seq)
		if err != nil {
			return "", fmt.Errorf("task #%d not found in project: %w", seq, err)
		}
		return t.ID, nil
	}
	return input, nil
}
