package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_MinimalTask(t *testing.T) {
	drafts, err := Convert(validMinimalSchema())
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	d := drafts[0]
	assert.Equal(t, "Fundação", d.Name)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), d.StartDate)
	assert.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), d.EndDate)
	assert.Equal(t, "Carlos", d.ResponsiblePerson)
	assert.Nil(t, d.Progress)
	assert.Nil(t, d.Status)
	assert.NoError(t, d.Validate())
}

func TestConvert_OverridesAndDisplayDates(t *testing.T) {
	schema := &ImportSchema{Tasks: []TaskImport{
		{Name: "Estrutura", StartDate: "21/01/2024", EndDate: "15/03/2024", ResponsiblePerson: "Marta", Progress: ptrInt(40), Status: "in_progress"},
	}}

	drafts, err := Convert(schema)
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	d := drafts[0]
	assert.Equal(t, time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC), d.StartDate)
	require.NotNil(t, d.Progress)
	assert.Equal(t, 40, *d.Progress)
	require.NotNil(t, d.Status)
	assert.Equal(t, domain.StatusInProgress, *d.Status)
}

func TestConvert_KeepsFileOrder(t *testing.T) {
	schema := &ImportSchema{Tasks: []TaskImport{
		{Name: "B", StartDate: "2024-02-01", EndDate: "2024-02-10", ResponsiblePerson: "x"},
		{Name: "A", StartDate: "2024-01-01", EndDate: "2024-01-10", ResponsiblePerson: "y"},
	}}

	drafts, err := Convert(schema)
	require.NoError(t, err)
	assert.Equal(t, "B", drafts[0].Name)
	assert.Equal(t, "A", drafts[1].Name)
}

func TestLoadImportSchema_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "tasks": [
    {"name": "Fundação", "start_date": "2024-01-01", "end_date": "2024-01-20", "responsible_person": "Carlos", "progress": 30}
  ]
}`), 0o644))

	schema, err := LoadImportSchema(path)
	require.NoError(t, err)
	require.Len(t, schema.Tasks, 1)
	assert.Equal(t, "Carlos", schema.Tasks[0].ResponsiblePerson)
	require.NotNil(t, schema.Tasks[0].Progress)
	assert.Equal(t, 30, *schema.Tasks[0].Progress)
}

func TestLoadImportSchema_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`tasks:
  - name: Fundação
    start_date: 01/01/2024
    end_date: 20/01/2024
    responsible_person: Carlos
  - name: Estrutura
    start_date: "2024-01-21"
    end_date: "2024-03-15"
    responsible_person: Marta
    status: delayed
`), 0o644))

	schema, err := LoadImportSchema(path)
	require.NoError(t, err)
	require.Len(t, schema.Tasks, 2)
	assert.Equal(t, "01/01/2024", schema.Tasks[0].StartDate)
	assert.Equal(t, "delayed", schema.Tasks[1].Status)
	assert.Empty(t, ValidateImportSchema(schema))
}

func TestLoadImportSchema_Errors(t *testing.T) {
	_, err := LoadImportSchema(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tasks": [`), 0o644))
	_, err = LoadImportSchema(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing import file")
}
