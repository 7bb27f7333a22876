package sheet

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/idilsaglam/chaintodo/internal/model"
)

func fixedNow() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

func TestTemplateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, WriteTemplate(path))

	drafts, err := Import(path, ImportOptions{Location: time.UTC})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Complete project proposal", drafts[0].Content)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC).Unix(), drafts[0].DueDate)
}

func TestImportRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.xlsx")
	f := excelize.NewFile()
	name := f.GetSheetName(0)
	cells := map[string]interface{}{
		"A1": "Content", "B1": "Due Date",
		"A2": "slash", "B2": "2025/03/04",
		"A3": "", "B3": "2025-01-01",
		"A4": "no date",
		"A5": "garbage", "B5": "next tuesday",
		"A6": "serial", "B6": 45658,
		"A7": "  padded  ", "B7": "04.03.2025",
	}
	for cell, v := range cells {
		require.NoError(t, f.SetCellValue(name, cell, v))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	drafts, err := Import(path, ImportOptions{Location: time.UTC, Now: fixedNow})
	require.NoError(t, err)

	want := []model.Draft{
		model.NewDraft("slash", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)),
		model.NewDraft("no date", fixedNow()),
		model.NewDraft("garbage", fixedNow()),
		model.NewDraft("serial", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		model.NewDraft("padded", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)),
	}
	assert.Equal(t, want, drafts)
}

func TestImportEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue(f.GetSheetName(0), "A1", "Content"))
	require.NoError(t, f.SaveAs(path))

	_, err := Import(path, ImportOptions{})
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = Import(filepath.Join(t.TempDir(), "missing.xlsx"), ImportOptions{})
	assert.Error(t, err)
}

func TestParseDue(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2025-12-31", time.Date(2025, 12, 31, 0, 0, 0, 0, berlin), true},
		{"12/31/2025", time.Date(2025, 12, 31, 0, 0, 0, 0, berlin), true},
		{"2025-12-31 08:30:00", time.Date(2025, 12, 31, 8, 30, 0, 0, berlin), true},
		{"2025-12-31T08:30:00Z", time.Date(2025, 12, 31, 8, 30, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"soon", time.Time{}, false},
		{"-3", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDue(tt.in, berlin)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			}
		})
	}
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")
	due := time.Date(2025, 5, 6, 0, 0, 0, 0, time.UTC)
	todos := []model.Todo{
		{ID: 1, Content: "ship", DueDate: due.Unix(), Owner: common.HexToAddress("0x01")},
		{ID: 2, Content: "review", DueDate: due.AddDate(0, 0, 1).Unix(), Completed: true},
	}
	require.NoError(t, Export(path, todos, time.UTC))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{HeaderContent, HeaderDue},
		{"ship", "2025-05-06"},
		{"review", "2025-05-07"},
	}, rows)

	drafts, err := Import(path, ImportOptions{Location: time.UTC})
	require.NoError(t, err)
	assert.Equal(t, []model.Draft{
		{Content: "ship", DueDate: todos[0].DueDate},
		{Content: "review", DueDate: todos[1].DueDate},
	}, drafts)
}
