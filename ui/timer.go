package ui

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// timer shows the time elapsed since the last Set, once started
type timer struct {
	showMillis bool
	startTime  time.Time
	mtx        sync.Mutex
	text       *canvas.Text
	stop       chan struct{}
	stopOnce   sync.Once
}

func newTimer(showMillis bool) *timer {
	return &timer{
		showMillis: showMillis,
		text:       canvas.NewText(formatElapsed(0, showMillis), nil),
		stop:       make(chan struct{}),
	}
}

func (t *timer) Set(start time.Time) {
	t.mtx.Lock()
	t.startTime = start
	t.mtx.Unlock()
}

func (t *timer) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

// Go refreshes the text after waitForStart is closed until Stop is called
func (t *timer) Go(waitForStart chan struct{}) {
	d := time.Second
	if t.showMillis {
		d = 64 * time.Millisecond
	}

	go func() {
		select {
		case <-waitForStart:
		case <-t.stop:
			return
		}

		ticker := time.NewTicker(d)
		defer ticker.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
			}

			t.mtx.Lock()
			text := formatElapsed(time.Since(t.startTime), t.showMillis)
			t.mtx.Unlock()

			fyne.Do(func() {
				t.text.Text = text
				t.text.Refresh()
			})
		}
	}()
}

func formatElapsed(elapsed time.Duration, showMillis bool) string {
	minutes := int(elapsed.Minutes())
	seconds := int(elapsed.Seconds()) % 60
	if showMillis {
		millis := int(elapsed.Milliseconds()) % 1000
		return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
