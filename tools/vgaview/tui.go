package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// cellStyle returns the tcell style for the cell at (row, col).
func (s *screen) cellStyle(row, col int) tcell.Style {
	fg, bg := s.colors(row, col)
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B))).
		Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B)))
}

// newScreenView returns a primitive that draws the screen cells at the top
// left corner of its inner area.
func newScreenView(s *screen, title string) *tview.Box {
	box := tview.NewBox().
		SetBorder(true).
		SetTitle(fmt.Sprintf(" %s (%dx%d) ", title, s.width, s.height))

	box.SetDrawFunc(func(ts tcell.Screen, x, y, width, height int) (int, int, int, int) {
		innerX, innerY, innerW, innerH := x+1, y+1, width-2, height-2
		for row := 0; row < s.height && row < innerH; row++ {
			for col := 0; col < s.width && col < innerW; col++ {
				ts.SetContent(innerX+col, innerY+row, s.char(row, col), nil, s.cellStyle(row, col))
			}
		}

		return innerX, innerY, innerW, innerH
	})

	return box
}

// showScreen displays the screen in the terminal until q or Escape is
// pressed.
func showScreen(s *screen, title string) error {
	app := tview.NewApplication()
	app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return ev
	})

	return app.SetRoot(newScreenView(s, title), true).Run()
}
