package diagnostics

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/monobuild/pkg/types"
)

// ConsoleSink renders events for a human watching the terminal: plain
// informational lines, styled warnings, and a progress bar per phase.
// When the output isn't a TTY it falls back to plain, unstyled lines so
// CI logs stay readable.
type ConsoleSink struct {
	out   io.Writer
	plain bool

	mu   sync.Mutex
	bars map[string]*pterm.ProgressbarPrinter
}

// NewConsoleSink creates a ConsoleSink writing to w. isTerminal, when
// nil, is detected from w via go-isatty; pass a fixed value in tests.
func NewConsoleSink(w io.Writer, isTerminal *bool) *ConsoleSink {
	plain := true
	if isTerminal != nil {
		plain = !*isTerminal
	} else if f, ok := w.(*os.File); ok {
		plain = !isatty.IsTerminal(f.Fd())
	}
	return &ConsoleSink{out: w, plain: plain, bars: make(map[string]*pterm.ProgressbarPrinter)}
}

func (c *ConsoleSink) Info(message string) {
	if c.plain {
		fmt.Fprintln(c.out, message)
		return
	}
	pterm.Info.WithWriter(c.out).Println(message)
}

func (c *ConsoleSink) Warn(d types.Diagnostic) {
	msg := fmt.Sprintf("%s: %s", d.Kind, d.Name)
	if d.Package != "" {
		msg = fmt.Sprintf("%s (package %s)", msg, d.Package)
	}
	if c.plain {
		fmt.Fprintln(c.out, "warning:", msg)
		return
	}
	pterm.Warning.WithWriter(c.out).Println(msg)
}

func (c *ConsoleSink) PhaseBegin(phase string) {
	if c.plain {
		fmt.Fprintf(c.out, "==> %s\n", phase)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	bar, _ := pterm.DefaultProgressbar.WithWriter(c.out).WithTitle(phase).WithTotal(0).Start()
	c.bars[phase] = bar
}

func (c *ConsoleSink) PhaseEnd(phase string, err error) {
	c.mu.Lock()
	bar := c.bars[phase]
	delete(c.bars, phase)
	c.mu.Unlock()

	if bar != nil {
		_, _ = bar.Stop()
	}
	if err != nil {
		if c.plain {
			fmt.Fprintf(c.out, "    %s failed: %v\n", phase, err)
			return
		}
		pterm.Error.WithWriter(c.out).Printfln("%s failed: %v", phase, err)
		return
	}
	if c.plain {
		fmt.Fprintf(c.out, "    %s done\n", phase)
	}
}

func (c *ConsoleSink) WorkAdded(phase string, delta int) {
	if c.plain || delta <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if bar, ok := c.bars[phase]; ok {
		bar.Total += delta
	}
}

func (c *ConsoleSink) WorkCompleted(phase string, delta int) {
	if c.plain || delta <= 0 {
		return
	}
	c.mu.Lock()
	bar, ok := c.bars[phase]
	c.mu.Unlock()
	if ok {
		bar.Add(delta)
	}
}
