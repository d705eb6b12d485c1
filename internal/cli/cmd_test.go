package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/canteiro/internal/adherence"
	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/alexanderramin/canteiro/internal/repository"
	"github.com/alexanderramin/canteiro/internal/service"
	"github.com/alexanderramin/canteiro/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cliNow = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	db := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(db)

	projRepo := repository.NewSQLiteProjectRepo(db)
	taskRepo := repository.NewSQLiteTaskRepo(db)
	eventRepo := repository.NewSQLiteEventRepo(db)
	adherenceRepo := repository.NewSQLiteAdherenceRepo(db)

	cfg := service.DefaultTimelineConfig()
	cfg.Now = func() time.Time { return cliNow }

	return &App{
		Projects: service.NewProjectService(projRepo, uow, adherence.DefaultPolicy()),
		Timeline: service.NewTimelineService(taskRepo, eventRepo, adherenceRepo, uow, cfg),
		Status:   service.NewStatusService(projRepo, taskRepo, adherenceRepo, adherence.DefaultPolicy()),
		Now:      func() time.Time { return cliNow },
		Location: time.UTC,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

// seedProject creates AUR01 with two tasks, Fundação (#1) and
// Alvenaria estrutural (#2).
func seedProject(t *testing.T, app *App) string {
	t.Helper()
	_, err := executeCmd(t, app, "project", "add", "--id", "aur01", "--name", "Residencial Aurora",
		"--location", "Curitiba", "--start", "06/01/2025", "--completion", "2025-12-01")
	require.NoError(t, err)

	for _, name := range []string{"Fundação", "Alvenaria estrutural"} {
		_, err := executeCmd(t, app, "task", "add", "AUR01", "--name", name,
			"--start", "01/03/2025", "--end", "01/04/2025", "--responsible", "Carlos")
		require.NoError(t, err)
	}

	id, err := resolveProjectID(context.Background(), app, "AUR01")
	require.NoError(t, err)
	return id
}

// --- root ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "canteiro")
}

// --- project ---

func TestProjectAdd_UppercasesShortID(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "project", "add", "--id", "obr01", "--name", "Edifício Sol",
		"--start", "2025-01-06", "--completion", "30/11/2025")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project Edifício Sol [OBR01]")

	out, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "OBR01")
	assert.Contains(t, out, "30/11/2025")
}

func TestProjectAdd_ReportsAllMissingFlags(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--id", "OBR01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--name, --start, --completion")
}

func TestProjectAdd_RejectsBadDate(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--id", "OBR01", "--name", "X",
		"--start", "31/02/2025", "--completion", "2025-12-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestProjectAdd_DuplicateShortID(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	_, err := executeCmd(t, app, "project", "add", "--id", "AUR01", "--name", "Outro",
		"--start", "2025-01-06", "--completion", "2025-12-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already used")
}

func TestProjectInspect_ShowsTimeline(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	out, err := executeCmd(t, app, "project", "inspect", "aur01")
	require.NoError(t, err)
	assert.Contains(t, out, "Residencial Aurora")
	assert.Contains(t, out, "ADHERENCE")
	assert.Contains(t, out, "Alvenaria estrutural")
	assert.Contains(t, out, "Task added: Fundação")
}

func TestProjectUpdate_RejectsArchivedStatus(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	_, err := executeCmd(t, app, "project", "update", "AUR01", "--status", "archived")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project archive")
}

func TestProjectRemove_RequiresArchiveOrForce(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	_, err := executeCmd(t, app, "project", "remove", "AUR01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archived before deletion")

	_, err = executeCmd(t, app, "project", "archive", "AUR01")
	require.NoError(t, err)
	out, err := executeCmd(t, app, "project", "remove", "AUR01")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed project AUR01")

	_, err = executeCmd(t, app, "project", "inspect", "AUR01")
	assert.Error(t, err)
}

// --- task ---

func TestTaskAdd_PrintsSeqAndAdherence(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	out, err := executeCmd(t, app, "task", "add", "AUR01", "--name", "Cobertura",
		"--start", "2025-04-01", "--end", "2025-05-01", "--responsible", "Marta", "--progress", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "Added task #3 Cobertura")
	assert.Contains(t, out, "0% delayed")
}

func TestTaskAdd_RequiresFields(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	_, err := executeCmd(t, app, "task", "add", "AUR01", "--name", "Cobertura")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start, --end, --responsible")
}

func TestTaskList_ByStart(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	_, err := executeCmd(t, app, "task", "add", "AUR01", "--name", "Canteiro de obras",
		"--start", "2025-02-01", "--end", "2025-02-20", "--responsible", "Marta")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "task", "list", "AUR01")
	require.NoError(t, err)
	assert.Less(t, indexOf(out, "Fundação"), indexOf(out, "Canteiro de obras"))

	out, err = executeCmd(t, app, "task", "list", "AUR01", "--by-start")
	require.NoError(t, err)
	assert.Less(t, indexOf(out, "Canteiro de obras"), indexOf(out, "Fundação"))
}

func indexOf(s, sub string) int {
	return bytes.Index([]byte(s), []byte(sub))
}

func TestTaskUpdate_BySeq(t *testing.T) {
	app := testApp(t)
	projectID := seedProject(t, app)

	out, err := executeCmd(t, app, "task", "update", "AUR01", "#2", "--status", "delayed")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated task #2 Alvenaria estrutural")
	assert.Contains(t, out, "50% delayed")

	task, err := app.Timeline.GetTaskBySeq(context.Background(), projectID, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelayed, task.Status)
}

func TestTaskUpdate_NoFlags(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	_, err := executeCmd(t, app, "task", "update", "AUR01", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

func TestTaskUpdate_InvalidStatusFlag(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	_, err := executeCmd(t, app, "task", "update", "AUR01", "1", "--status", "paused")
	assert.Error(t, err)
}

func TestTaskShow(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	out, err := executeCmd(t, app, "task", "show", "AUR01", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Fundação")
	assert.Contains(t, out, "Carlos")
}

func TestTaskDelete(t *testing.T) {
	app := testApp(t)
	projectID := seedProject(t, app)

	out, err := executeCmd(t, app, "task", "delete", "AUR01", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted task #1 Fundação")

	tasks, err := app.Timeline.ListTasks(context.Background(), projectID, false)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Alvenaria estrutural", tasks[0].Name)

	_, err = executeCmd(t, app, "task", "delete", "AUR01", "1")
	assert.Error(t, err)
}

func TestTaskImport_YAML(t *testing.T) {
	app := testApp(t)
	projectID := seedProject(t, app)

	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`tasks:
  - name: Instalações elétricas
    start_date: 01/04/2025
    end_date: 30/04/2025
    responsible_person: Rui
  - name: Pintura
    start_date: 2025-05-01
    end_date: 2025-05-20
    responsible_person: Rui
    status: delayed
`), 0o644))

	out, err := executeCmd(t, app, "task", "import", "AUR01", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 tasks")
	assert.Contains(t, out, "25% delayed")

	tasks, err := app.Timeline.ListTasks(context.Background(), projectID, false)
	require.NoError(t, err)
	assert.Len(t, tasks, 4)
}

// --- report ---

func TestReportSend_AppliesDelay(t *testing.T) {
	app := testApp(t)
	projectID := seedProject(t, app)

	out, err := executeCmd(t, app, "report", "send", "AUR01", "--author", "Marta", "--at", "10/03/2025 08:30",
		"Fundação", "com", "atraso", "por", "chuva")
	require.NoError(t, err)
	assert.Contains(t, out, "Fundação")
	assert.Contains(t, out, "(atraso)")

	task, err := app.Timeline.GetTaskBySeq(context.Background(), projectID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelayed, task.Status)
	assert.Contains(t, task.Description, "[10/03/2025 08:30] Marta: Fundação com atraso por chuva")
}

func TestReportSend_NoMatch(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	out, err := executeCmd(t, app, "report", "send", "AUR01", "bom", "dia")
	require.NoError(t, err)
	assert.Contains(t, out, "timeline unchanged")
}

func TestReportImport_ChatExport(t *testing.T) {
	app := testApp(t)
	projectID := seedProject(t, app)

	path := filepath.Join(t.TempDir(), "chat.txt")
	require.NoError(t, os.WriteFile(path, []byte(
		"10/03/2025 08:00 - Carlos: Fundação avançando\n"+
			"10/03/2025 08:05 - Marta: bom dia\n"+
			"10/03/2025 09:00 - Carlos: alvenaria estrutural parada, falta bloco\n"), 0o644))

	out, err := executeCmd(t, app, "report", "import", "AUR01", path)
	require.NoError(t, err)
	assert.Contains(t, out, "3 messages, 2 applied, 1 ignored")

	tasks, err := app.Timeline.ListTasks(context.Background(), projectID, false)
	require.NoError(t, err)
	assert.Equal(t, 20, tasks[0].Progress)
	assert.Equal(t, domain.StatusInProgress, tasks[0].Status)
	assert.Equal(t, domain.StatusDelayed, tasks[1].Status)
}

func TestChatFeed_AppliesOnlyAppendedMessages(t *testing.T) {
	app := testApp(t)
	projectID := seedProject(t, app)
	ctx := context.Background()

	var out, errOut bytes.Buffer
	feed := newChatFeed(app, projectID, &out, &errOut)

	path := filepath.Join(t.TempDir(), "chat.txt")
	first := "10/03/2025 08:00 - Carlos: Fundação avançando\n"
	require.NoError(t, os.WriteFile(path, []byte(first), 0o644))
	feed.Handle(ctx, path)

	require.NoError(t, os.WriteFile(path, []byte(first+"10/03/2025 17:00 - Carlos: Fundação avançando bem\n"), 0o644))
	feed.Handle(ctx, path)
	// unchanged file is a no-op
	feed.Handle(ctx, path)

	assert.Empty(t, errOut.String())
	task, err := app.Timeline.GetTaskBySeq(ctx, projectID, 1)
	require.NoError(t, err)
	assert.Equal(t, 40, task.Progress)
}

func TestReportWatch_HelpWarnsAboutRestart(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "report", "watch", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Restarting the watch")
	assert.Contains(t, out, "--skip-existing")
}

func TestChatFeed_MarkSeenSkipsExisting(t *testing.T) {
	app := testApp(t)
	projectID := seedProject(t, app)
	ctx := context.Background()

	var out, errOut bytes.Buffer
	feed := newChatFeed(app, projectID, &out, &errOut)

	path := filepath.Join(t.TempDir(), "chat.txt")
	require.NoError(t, os.WriteFile(path, []byte("10/03/2025 08:00 - Carlos: Fundação avançando\n"), 0o644))
	require.NoError(t, feed.MarkSeen(path))
	feed.Handle(ctx, path)

	task, err := app.Timeline.GetTaskBySeq(ctx, projectID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, task.Progress)
	assert.Empty(t, out.String())
}

func TestChatFeed_ReportsMissingFile(t *testing.T) {
	app := testApp(t)
	projectID := seedProject(t, app)

	var out, errOut bytes.Buffer
	feed := newChatFeed(app, projectID, &out, &errOut)
	feed.Handle(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))

	assert.Contains(t, errOut.String(), "gone.txt")
}

// --- status / events ---

func TestStatusCmd(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)
	_, err := executeCmd(t, app, "task", "update", "AUR01", "1", "--status", "delayed")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "AUR01")
	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, "1 project(s) critical")
}

func TestStatusCmd_UnknownProject(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	_, err := executeCmd(t, app, "status", "--project", "NOPE01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project not found")
}

func TestEventsCmd_NewestFirst(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	out, err := executeCmd(t, app, "events", "AUR01", "-n", "5")
	require.NoError(t, err)
	assert.Less(t, indexOf(out, "Task added: Alvenaria estrutural"), indexOf(out, "Task added: Fundação"))

	out, err = executeCmd(t, app, "events")
	require.NoError(t, err)
	assert.Contains(t, out, "Task added: Fundação")
}
