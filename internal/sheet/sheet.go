// Package sheet reads and writes the two-column todo workbook:
// a header row followed by Content and Due Date cells.
package sheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/idilsaglam/chaintodo/internal/model"
)

const (
	HeaderContent = "Content"
	HeaderDue     = "Due Date"

	// DateLayout is the layout dates are written with.
	DateLayout = "2006-01-02"
)

var ErrNoRows = errors.New("no todos found in workbook")

// Accepted due date layouts, tried in order.
var layouts = []string{
	DateLayout,
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04",
}

type ImportOptions struct {
	// Location dates without an offset are interpreted in. Defaults to time.Local.
	Location *time.Location
	// Now is used when a due date is missing or unparseable. Defaults to time.Now.
	Now func() time.Time
}

func (o ImportOptions) loc() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o ImportOptions) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Import reads drafts from the first sheet of the workbook at path.
// Rows with an empty Content cell are skipped.
func Import(path string, opts ImportOptions) ([]model.Draft, error) {
	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoRows
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	var drafts []model.Draft
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		content := strings.TrimSpace(row[0])
		if content == "" {
			continue
		}
		due := ""
		if len(row) > 1 {
			due = row[1]
		}
		t, ok := ParseDue(due, opts.loc())
		if !ok {
			t = opts.now()
		}
		drafts = append(drafts, model.NewDraft(content, t))
	}
	if len(drafts) == 0 {
		return nil, ErrNoRows
	}
	return drafts, nil
}

// ParseDue parses a due date cell. Plain numbers are Excel date serials.
func ParseDue(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		// serials carry no zone; keep the wall clock in loc
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), true
	}
	return time.Time{}, false
}

// WriteTemplate writes a workbook with the header and one example row.
func WriteTemplate(path string) error {
	return write(path, [][]string{{"Complete project proposal", "2025-12-31"}})
}

// Export writes todos to path in the import format, dates in loc.
func Export(path string, todos []model.Todo, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	rows := make([][]string, 0, len(todos))
	for _, t := range todos {
		rows = append(rows, []string{t.Content, t.Due().In(loc).Format(DateLayout)})
	}
	return write(path, rows)
}

func write(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	name := f.GetSheetName(0)
	header := []interface{}{HeaderContent, HeaderDue}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(name, "A1", "B1", style); err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{r[0], r[1]}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(name, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(name, "B", "B", 14); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
