package molframe

import (
	"fmt"
	"io"
)

// ProgressMode selects how SMILES2Mol reports progress.
type ProgressMode string

const (
	// ProgressNone disables progress output.
	ProgressNone ProgressMode = "none"
	// ProgressTerminal rewrites a single counter line using carriage returns.
	ProgressTerminal ProgressMode = "terminal"
	// ProgressNotebook prints one line per ten percent, for outputs that do
	// not interpret carriage returns.
	ProgressNotebook ProgressMode = "notebook"
)

// ParseProgressMode validates a progress mode name. Names are matched
// exactly; the empty string means ProgressNone.
func ParseProgressMode(s string) (ProgressMode, error) {
	switch ProgressMode(s) {
	case "", ProgressNone:
		return ProgressNone, nil
	case ProgressTerminal:
		return ProgressTerminal, nil
	case ProgressNotebook:
		return ProgressNotebook, nil
	default:
		return "", invalidArgument("progress must be one of %q, %q or %q, got %q",
			ProgressNone, ProgressTerminal, ProgressNotebook, s)
	}
}

type progress interface {
	Step()
	Finish()
}

func newProgress(mode ProgressMode, w io.Writer, desc string, total int) progress {
	switch mode {
	case ProgressTerminal:
		return &terminalProgress{w: w, desc: desc, total: total}
	case ProgressNotebook:
		return &notebookProgress{w: w, desc: desc, total: total}
	default:
		return noopProgress{}
	}
}

type noopProgress struct{}

func (noopProgress) Step()   {}
func (noopProgress) Finish() {}

type terminalProgress struct {
	w     io.Writer
	desc  string
	total int
	done  int
}

func (p *terminalProgress) Step() {
	p.done++
	fmt.Fprintf(p.w, "\r%s: %d/%d", p.desc, p.done, p.total)
}

func (p *terminalProgress) Finish() {
	if p.done == 0 {
		fmt.Fprintf(p.w, "\r%s: 0/%d", p.desc, p.total)
	}
	fmt.Fprintln(p.w)
}

type notebookProgress struct {
	w      io.Writer
	desc   string
	total  int
	done   int
	decile int
}

func (p *notebookProgress) Step() {
	p.done++
	d := p.done * 10 / p.total
	if d > p.decile {
		p.decile = d
		fmt.Fprintf(p.w, "%s: %3d%% (%d/%d)\n", p.desc, d*10, p.done, p.total)
	}
}

func (p *notebookProgress) Finish() {
	if p.total == 0 {
		fmt.Fprintf(p.w, "%s: 100%% (0/0)\n", p.desc)
	}
}
