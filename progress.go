// ABOUTME: Progress display for exhaustive ranking runs
// ABOUTME: Draws a spinner status line from engine progress snapshots on a terminal

package main

import (
	"fmt"
	"io"
	"time"

	"albumseq/engine"
)

const spinnerUpdateInterval = 500 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// formatElapsed formats elapsed time (right-padded to 6 chars for max "59m59s")
func formatElapsed(d time.Duration) string {
	var s string
	if d >= time.Minute {
		s = fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	} else {
		s = fmt.Sprintf("%ds", int(d.Seconds()))
	}

	return fmt.Sprintf("%6s", s)
}

// formatProgress renders one status line
func formatProgress(p engine.Progress, elapsed time.Duration, frame string) string {
	total := "?"
	percent := ""

	if p.Total > 0 {
		total = fmt.Sprint(p.Total)
		percent = fmt.Sprintf(" (%.0f%%)", float64(p.Evaluated)*100/float64(p.Total))
	}

	best := "-"
	if p.BestScore >= 0 {
		best = fmt.Sprint(p.BestScore)
	}

	return fmt.Sprintf("%s %s %d/%s orderings%s | %d fit | best %s",
		formatElapsed(elapsed), frame, p.Evaluated, total, percent, p.Feasible, best)
}

// progressDisplay overwrites a status line as snapshots arrive
type progressDisplay struct {
	out      io.Writer
	updates  chan engine.Progress
	quit     chan struct{}
	done     chan struct{}
	interval time.Duration
}

// startProgress begins drawing on out; call stop before printing results
func startProgress(out io.Writer, interval time.Duration) *progressDisplay {
	pd := &progressDisplay{
		out:      out,
		updates:  make(chan engine.Progress, 10),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		interval: interval,
	}

	go pd.loop()

	return pd
}

func (pd *progressDisplay) loop() {
	defer close(pd.done)

	ticker := time.NewTicker(pd.interval)
	defer ticker.Stop()

	var (
		latest   engine.Progress
		frameIdx int
		drawn    bool
	)

	start := time.Now()

	draw := func() {
		fmt.Fprintf(pd.out, "\r%s     ", formatProgress(latest, time.Since(start), spinnerFrames[frameIdx]))
		frameIdx = (frameIdx + 1) % len(spinnerFrames)
		drawn = true
	}

	for {
		select {
		case p := <-pd.updates:
			latest = p
		case <-ticker.C:
			draw()
		case <-pd.quit:
			if drawn {
				// Clear the status line
				fmt.Fprint(pd.out, "\r\033[K")
			}

			return
		}
	}
}

// stop ends the display and waits for the line to be cleared
func (pd *progressDisplay) stop() {
	close(pd.quit)
	<-pd.done
}
