package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rustyeddy/rob/portfolio"
)

// ConsolePrompter reads per-order decisions from a terminal. ENTER
// executes, "skip"/"s" skips, "abort"/"q" aborts. Anything else counts
// as a skip: execution always requires explicit confirmation.
type ConsolePrompter struct {
	In  *bufio.Reader
	Out io.Writer
}

func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{In: bufio.NewReader(in), Out: out}
}

func (p *ConsolePrompter) Decide(ctx context.Context, ord portfolio.PlannedOrder, index, total int) (Decision, error) {
	fmt.Fprint(p.Out, "\n  Press ENTER to execute, 'skip' to skip, or 'abort' to exit: ")

	line, err := p.In.ReadString('\n')
	if err != nil && line == "" {
		return Abort, fmt.Errorf("read decision: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return Execute, nil
	case "skip", "s":
		return Skip, nil
	case "abort", "q", "quit":
		return Abort, nil
	default:
		fmt.Fprintln(p.Out, "  Unrecognized input.")
		return Skip, nil
	}
}
