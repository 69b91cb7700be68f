package ui

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const defaultMaxLogLines = 500

// logView collects module output line by line and keeps the newest maxLines
type logView struct {
	mtx      sync.Mutex
	lines    []string
	partial  string
	maxLines int

	// onLine is called for every complete line, outside of the lock
	onLine func(string)

	label  *widget.Label
	scroll *container.Scroll
}

func newLogView(maxLines int) *logView {
	if maxLines <= 0 {
		maxLines = defaultMaxLogLines
	}
	return &logView{maxLines: maxLines}
}

func (l *logView) Write(p []byte) (int, error) {
	l.mtx.Lock()
	parts := strings.Split(l.partial+string(p), "\n")
	l.partial = parts[len(parts)-1]

	complete := make([]string, 0, len(parts)-1)
	for _, line := range parts[:len(parts)-1] {
		complete = append(complete, strings.TrimSuffix(line, "\r"))
	}

	l.lines = append(l.lines, complete...)
	if len(l.lines) > l.maxLines {
		l.lines = l.lines[len(l.lines)-l.maxLines:]
	}
	text := strings.Join(l.lines, "\n")
	label, scroll := l.label, l.scroll
	l.mtx.Unlock()

	if l.onLine != nil {
		for _, line := range complete {
			l.onLine(line)
		}
	}

	if label != nil && len(complete) > 0 {
		fyne.Do(func() {
			label.SetText(text)
			scroll.ScrollToBottom()
		})
	}

	return len(p), nil
}

func (l *logView) Lines() []string {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return append([]string(nil), l.lines...)
}

func (l *logView) accordion() *widget.Accordion {
	label := widget.NewLabel(strings.Join(l.Lines(), "\n"))
	label.Wrapping = fyne.TextWrapWord
	scroll := container.NewVScroll(label)
	scroll.SetMinSize(fyne.NewSize(400, 150))

	l.mtx.Lock()
	l.label, l.scroll = label, scroll
	l.mtx.Unlock()

	return widget.NewAccordion(
		widget.NewAccordionItem("Logs", scroll),
	)
}
