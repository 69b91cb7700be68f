package ui

import (
	"context"
	"io"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/splitflap"
)

const flapColumns = 10

// FlapUI is a control panel for one module. It is an io.Writer for the module's output.
type FlapUI struct {
	app  fyne.App
	logs *logView

	display *canvas.Text
}

func NewFlapUI(app fyne.App) *FlapUI {
	ui := &FlapUI{
		app:     app,
		logs:    newLogView(defaultMaxLogLines),
		display: canvas.NewText("?", theme.Color(theme.ColorNameForeground)),
	}
	ui.logs.onLine = ui.handleLine

	return ui
}

func (ui *FlapUI) Write(p []byte) (int, error) {
	return ui.logs.Write(p)
}

// handleLine shows the flap the module is moving to
func (ui *FlapUI) handleLine(line string) {
	char, ok := parseMovingTo(line)
	if !ok {
		return
	}
	fyne.Do(func() {
		ui.display.Text = displayText(char)
		ui.display.Refresh()
	})
}

// Show opens the control window. Commands are written to w. The app quits when ctx is done.
func (ui *FlapUI) Show(ctx context.Context, w io.Writer) {
	window := ui.app.NewWindow("Split-Flap Module")

	lastCommandTimer := newTimer(true)
	waitForFirst := make(chan struct{})
	lastCommandTimer.Go(waitForFirst)

	c := &controllerWrapper{writer: w, lastCommandTimer: lastCommandTimer}
	started := false
	markStarted := func() {
		if !started {
			started = true
			close(waitForFirst)
		}
	}

	ui.display.TextSize = 64
	ui.display.TextStyle = fyne.TextStyle{Monospace: true, Bold: true}
	ui.display.Alignment = fyne.TextAlignCenter

	flapGrid := container.NewGridWithColumns(flapColumns)
	for i, f := range splitflap.Flaps() {
		flapGrid.Add(widget.NewButton(displayText(f.Character), func() {
			markStarted()
			c.GoToCharacter(f.Character, i)
		}))
	}

	commandBar := container.NewHBox()
	for _, name := range []string{"ZERO", "REV", "POS", "INFO", "COUNT", "LIST", "CONFIG", "ID", "RESET", "HELP"} {
		commandBar.Add(widget.NewButton(name, func() {
			markStarted()
			c.Command(name)
		}))
	}

	moveEntry := createNumberEntry("MOVE", "steps", func(n int64) {
		markStarted()
		c.Move(n)
	})
	zeroOffsetEntry := createNumberEntry("ZOFFSET", "degrees", func(n int64) {
		markStarted()
		c.SetZeroOffset(n)
	})
	stepOffsetEntry := createNumberEntry("OFFSET", "steps", func(n int64) {
		markStarted()
		c.SetStepOffset(n)
	})

	content := container.NewVBox(
		container.NewHBox(
			container.NewPadded(ui.display),
			layout.NewSpacer(),
			container.NewPadded(lastCommandTimer.text),
		),
		flapGrid,
		commandBar,
		container.NewGridWithColumns(3, moveEntry, zeroOffsetEntry, stepOffsetEntry),
		ui.logs.accordion(),
	)

	go func() {
		<-ctx.Done()
		lastCommandTimer.Stop()
		fyne.Do(func() {
			ui.app.Quit()
		})
	}()

	window.SetCloseIntercept(func() {
		window.Close()
		ui.app.Quit()
	})
	window.SetContent(content)
	window.Resize(fyne.NewSize(600, 500))
	window.Show()
}

func createNumberEntry(label, placeholder string, onSubmit func(int64)) *fyne.Container {
	entry := widget.NewEntry()
	entry.SetPlaceHolder(placeholder)
	entry.OnSubmitted = func(s string) {
		entry.SetText("")

		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return
		}
		onSubmit(n)
	}

	button := widget.NewButton(label, func() {
		entry.OnSubmitted(entry.Text)
	})

	return container.NewBorder(nil, nil, nil, button, entry)
}

// parseMovingTo reads the character from a "Moving to index N (Character: 'X')..." line
func parseMovingTo(line string) (byte, bool) {
	const marker = "(Character: '"
	if !strings.HasPrefix(line, "Moving to index ") {
		return 0, false
	}

	i := strings.Index(line, marker)
	if i < 0 || i+len(marker)+1 >= len(line) || line[i+len(marker)+1] != '\'' {
		return 0, false
	}

	return line[i+len(marker)], true
}

func displayText(c byte) string {
	if c == ' ' {
		return "␣"
	}
	return string(c)
}
