package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// progressInterval is the minimum time between two redraws.
const progressInterval = 100 * time.Millisecond

// progressBar shows fingerprinting progress with elapsed time and ETA on a
// single updating line. It implements scanner.Observer. The bar is created
// in Start once the number of candidates is known.
type progressBar struct {
	out io.Writer

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func newProgressBar(out io.Writer) *progressBar {
	return &progressBar{out: out}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Start implements scanner.Observer.
func (p *progressBar) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if total <= 0 {
		return
	}
	p.bar = progressbar.NewOptions64(int64(total),
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("Fingerprinting"),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionThrottle(progressInterval),
		progressbar.OptionSetWidth(30),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(p.out)
		}),
	)
	_ = p.bar.RenderBlank() //nolint:errcheck // progress output is best effort
}

// Advance implements scanner.Observer.
func (p *progressBar) Advance() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Add(1) //nolint:errcheck // progress output is best effort
	}
}

// Finish implements scanner.Observer.
func (p *progressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil && !p.bar.IsFinished() {
		_ = p.bar.Finish() //nolint:errcheck // progress output is best effort
	}
}

// Println writes line on its own row without tearing the progress line.
func (p *progressBar) Println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil || p.bar.IsFinished() {
		fmt.Fprintln(p.out, line)
		return
	}
	_ = p.bar.Clear() //nolint:errcheck // progress output is best effort
	fmt.Fprintln(p.out, line)
	_ = p.bar.RenderBlank() //nolint:errcheck // progress output is best effort
}
