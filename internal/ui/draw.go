package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/romferry/romferry/internal/constants"
	"github.com/romferry/romferry/internal/notify"
	"github.com/romferry/romferry/internal/session"
)

var (
	colorBG        = tcell.NewRGBColor(20, 20, 30)
	colorText      = tcell.NewRGBColor(230, 230, 240)
	colorHighlight = tcell.NewRGBColor(100, 200, 255)
	colorScrollbar = tcell.NewRGBColor(60, 60, 80)
	colorBarTrack  = tcell.NewRGBColor(50, 50, 70)
	colorBarFill   = tcell.NewRGBColor(100, 200, 255)

	colorError   = tcell.NewRGBColor(180, 40, 40)
	colorSuccess = tcell.NewRGBColor(40, 180, 80)
	colorInfo    = tcell.NewRGBColor(40, 120, 180)
)

var (
	styleBG        = tcell.StyleDefault.Foreground(colorText).Background(colorBG)
	styleTitle     = styleBG.Bold(true)
	styleInput     = tcell.StyleDefault.Foreground(colorHighlight).Background(colorBG)
	styleSelected  = tcell.StyleDefault.Foreground(colorBG).Background(colorHighlight)
	styleTrack     = tcell.StyleDefault.Background(colorBarTrack)
	styleFill      = tcell.StyleDefault.Background(colorBarFill)
	styleScrollbar = tcell.StyleDefault.Background(colorScrollbar)
)

const (
	menuTop      = 3
	keyboardTop  = 5
	footerMargin = 2
	notifyWidth  = 40
)

// menuVisibleRows is how many menu entries fit between the title block
// and the footer at the given screen height.
func menuVisibleRows(h int) int {
	rows := h - menuTop - footerMargin - 1
	if rows < 1 {
		rows = 1
	}
	return rows
}

// draw renders one frame: the current screen, its footer, and the
// notification stack on top.
func draw(screen tcell.Screen, v session.View, notes []notify.Notification, now time.Time) {
	screen.Clear()
	w, h := screen.Size()
	if w <= 0 || h <= 0 {
		screen.Show()
		return
	}

	switch v.State {
	case session.StateQueryInput:
		drawKeyboard(screen, v, w, h)
	case session.StateDownloading, session.StateBatchRunning:
		drawProgress(screen, v, w, h)
	default:
		drawMenu(screen, v, w, h)
	}

	if v.Footer != "" {
		drawCentered(screen, h-footerMargin, w, v.Footer, styleBG)
	}
	drawNotifications(screen, notes, now, w)

	screen.Show()
}

func drawMenu(screen tcell.Screen, v session.View, w, h int) {
	drawCentered(screen, 1, w, v.Title, styleTitle)

	rows := menuVisibleRows(h)
	end := v.Scroll + rows
	if end > len(v.Options) {
		end = len(v.Options)
	}

	y := menuTop
	for i := v.Scroll; i < end; i++ {
		label := v.Options[i]
		if v.Marked != nil && v.Marked.Has(label) && label != session.BackEntry {
			label = "[x] " + label
		}
		if i == v.Cursor {
			fillRow(screen, 2, w-4, y, styleSelected)
			drawCentered(screen, y, w, label, styleSelected)
		} else {
			drawCentered(screen, y, w, label, styleBG)
		}
		y++
	}

	drawScrollbar(screen, len(v.Options), v.Cursor, rows, w, h)
}

// drawScrollbar paints a fixed-length thumb whose position tracks the
// cursor, on the right edge of the menu area.
func drawScrollbar(screen tcell.Screen, count, cursor, rows, w, h int) {
	if count <= 1 || count <= rows || w < 4 {
		return
	}
	trackX := w - 2
	trackH := rows
	for y := 0; y < trackH; y++ {
		screen.SetContent(trackX, menuTop+y, ' ', nil, styleScrollbar)
	}

	thumbH := trackH / 4
	if thumbH < 1 {
		thumbH = 1
	}
	step := float64(trackH-thumbH) / float64(count-1)
	thumbY := menuTop + int(step*float64(cursor))
	for y := 0; y < thumbH; y++ {
		screen.SetContent(trackX, thumbY+y, ' ', nil, styleSelected)
	}
}

func drawKeyboard(screen tcell.Screen, v session.View, w, h int) {
	drawCentered(screen, 1, w, v.Prompt, styleTitle)
	drawCentered(screen, 3, w, "Input: "+v.Input+"_", styleInput)

	for r, row := range v.Keys {
		y := keyboardTop + r*2
		if y >= h-footerMargin {
			break
		}
		spacing := w / (len(row) + 1)
		for c, key := range row {
			x := (c+1)*spacing - len(key)/2
			if r == v.KeyRow && c == v.KeyCol {
				drawText(screen, x-1, y, " "+key+" ", styleSelected)
			} else {
				drawText(screen, x, y, key, styleBG)
			}
		}
	}
}

func drawProgress(screen tcell.Screen, v session.View, w, h int) {
	drawCentered(screen, h/3, w, v.ProgressTitle, styleTitle)

	x0, x1 := 4, w-4
	barY := h / 2
	if x1 <= x0 {
		return
	}
	fillRow(screen, x0, x1, barY, styleTrack)
	fill := int(float64(x1-x0) * v.Fraction)
	if fill > x1-x0 {
		fill = x1 - x0
	}
	if fill > 0 {
		fillRow(screen, x0, x0+fill, barY, styleFill)
	}

	caption := fmt.Sprintf("%.1f%% | %.2f MB/s | ETA %s", v.Percent, v.SpeedMBps, v.ETA)
	drawCentered(screen, barY+2, w, caption, styleBG)
}

// drawNotifications stacks the most recent notifications in the top
// right corner, fading each toward the background as it expires.
func drawNotifications(screen tcell.Screen, notes []notify.Notification, now time.Time, w int) {
	if len(notes) > constants.MaxVisibleNotifications {
		notes = notes[len(notes)-constants.MaxVisibleNotifications:]
	}

	width := notifyWidth
	if width > w-4 {
		width = w - 4
	}
	if width < 10 {
		return
	}
	x := w - width - 1

	y := 1
	for _, n := range notes {
		alpha := n.Alpha(now)
		st := tcell.StyleDefault.
			Foreground(blend(colorText, alpha)).
			Background(blend(kindColor(n.Level), alpha))

		lines := wrapWords(n.Message, width-2)
		if len(lines) > 3 {
			lines = lines[:3]
		}
		for _, line := range lines {
			fillRow(screen, x, x+width, y, st)
			drawText(screen, x+1, y, line, st)
			y++
		}
		y++
	}
}

func kindColor(level notify.Level) tcell.Color {
	switch level {
	case notify.LevelError:
		return colorError
	case notify.LevelSuccess:
		return colorSuccess
	default:
		return colorInfo
	}
}

// blend fades a color toward the background, standing in for the alpha
// channel terminals do not have.
func blend(c tcell.Color, alpha int) tcell.Color {
	if alpha >= 255 {
		return c
	}
	if alpha < 0 {
		alpha = 0
	}
	cr, cg, cb := c.RGB()
	br, bg, bb := colorBG.RGB()
	mix := func(a, b int32) int32 {
		return b + (a-b)*int32(alpha)/255
	}
	return tcell.NewRGBColor(mix(cr, br), mix(cg, bg), mix(cb, bb))
}

// wrapWords word-wraps text to the given width. Words longer than a
// full line are hard-split.
func wrapWords(text string, width int) []string {
	if width < 1 {
		return nil
	}
	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		for len(word) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= 0 {
			screen.SetContent(col, y, r, nil, style)
		}
		col++
	}
}

func drawCentered(screen tcell.Screen, y, w int, text string, style tcell.Style) {
	runes := []rune(text)
	if len(runes) > w {
		runes = runes[:w]
	}
	x := (w - len(runes)) / 2
	drawText(screen, x, y, string(runes), style)
}

func fillRow(screen tcell.Screen, x0, x1, y int, style tcell.Style) {
	for x := x0; x < x1; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}
