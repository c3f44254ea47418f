package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

func setupKeybindings(app *App) {
	app.tapp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			app.stop()
			return nil
		case tcell.KeyRune:
		default:
			return event
		}

		switch event.Rune() {
		case 'q':
			app.stop()
			return nil

		case 's':
			app.recordTable.CycleSort()
			app.recordTable.Update(app.getRecords())
			app.killPanel.Message(fmt.Sprintf("Sorting by: %s", app.recordTable.SortName()))
			return nil

		case 'f':
			app.recordTable.CycleFilter()
			app.recordTable.Update(app.getRecords())
			app.killPanel.Message(fmt.Sprintf("Showing: %s", app.recordTable.FilterName()))
			return nil

		case 'c':
			app.killPanel.Clear()
			return nil
		}
		return event
	})
}
