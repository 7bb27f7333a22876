package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/idilsaglam/chaintodo/internal/model"
	"github.com/idilsaglam/chaintodo/internal/sheet"
	"github.com/idilsaglam/chaintodo/internal/store/jsonstore"
	"github.com/idilsaglam/chaintodo/internal/ui"
)

const defaultTemplate = "todo_template.xlsx"

func fileKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return "sheet"
	case jsonstore.Ext:
		return "json"
	}
	return ""
}

func doImport(ctx context.Context, app *App, path string) int {
	loc, now := app.Config.Location(), app.now()

	var (
		drafts []model.Draft
		err    error
	)
	switch fileKind(path) {
	case "sheet":
		drafts, err = sheet.Import(path, sheet.ImportOptions{Location: loc, Now: app.now})
	case "json":
		drafts, err = jsonstore.Load(path, now)
	default:
		ui.Fail("import: unsupported file type " + filepath.Ext(path))
		return 2
	}
	if err != nil {
		ui.Fail("import: " + err.Error())
		return 1
	}
	ui.Hint(fmt.Sprintf("read %d todo(s) from %s", len(drafts), path))

	if err := app.connect(ctx, false); err != nil {
		ui.Fail("connect: " + err.Error())
		return 1
	}
	res, err := app.Service.BulkCreate(ctx, drafts)
	if err != nil {
		return outcome("import", err)
	}
	confirmed(fmt.Sprintf("imported %d todo(s)", len(drafts)), res)
	return 0
}

func doExport(ctx context.Context, app *App, path string) int {
	kind := fileKind(path)
	if kind == "" {
		ui.Fail("export: unsupported file type " + filepath.Ext(path))
		return 2
	}
	if err := app.connect(ctx, false); err != nil {
		ui.Fail("connect: " + err.Error())
		return 1
	}
	todos, err := app.Service.Resync(ctx)
	if err != nil {
		return outcome("export", err)
	}
	if kind == "sheet" {
		err = sheet.Export(path, todos, app.Config.Location())
	} else {
		err = jsonstore.Save(path, todos)
	}
	if err != nil {
		ui.Fail("export: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("exported %d todo(s) to %s", len(todos), path))
	return 0
}

func doTemplate(path string) int {
	if fileKind(path) != "sheet" {
		ui.Fail("template: file must end in .xlsx")
		return 2
	}
	if err := sheet.WriteTemplate(path); err != nil {
		ui.Fail("template: " + err.Error())
		return 1
	}
	ui.OK("wrote " + path)
	ui.Hint(fmt.Sprintf("columns: %q, %q (%s)", sheet.HeaderContent, sheet.HeaderDue, sheet.DateLayout))
	return 0
}
