package keyring

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Approver decides whether a caller may use the wallet on the given chains.
type Approver interface {
	Approve(ctx context.Context, chainIDs []string) (bool, error)
}

type ApproverFunc func(ctx context.Context, chainIDs []string) (bool, error)

func (f ApproverFunc) Approve(ctx context.Context, chainIDs []string) (bool, error) {
	return f(ctx, chainIDs)
}

var (
	AutoApprove Approver = ApproverFunc(func(context.Context, []string) (bool, error) { return true, nil })
	DenyAll     Approver = ApproverFunc(func(context.Context, []string) (bool, error) { return false, nil })
)

// TerminalApprover asks on the controlling terminal. One goroutine reads the terminal for the
// approver's lifetime, a prompt given up on by its caller does not leave a reader behind.
type TerminalApprover struct {
	in    io.Reader
	out   io.Writer
	isTTY bool

	once  sync.Once
	lines chan string
}

func NewTerminalApprover() *TerminalApprover {
	return newTerminalApprover(os.Stdin, os.Stderr, term.IsTerminal(int(os.Stdin.Fd())))
}

func newTerminalApprover(in io.Reader, out io.Writer, isTTY bool) *TerminalApprover {
	return &TerminalApprover{
		in:    in,
		out:   out,
		isTTY: isTTY,
		lines: make(chan string, 1),
	}
}

func (a *TerminalApprover) Approve(ctx context.Context, chainIDs []string) (bool, error) {
	if !a.isTTY {
		return false, errors.New("no terminal available to ask for permission")
	}

	a.once.Do(func() { go a.readLines() })

	// an answer typed after its prompt was abandoned must not approve this one
	select {
	case <-a.lines:
	default:
	}

	fmt.Fprintf(a.out, "Allow connection to %s? [y/N]: ", strings.Join(chainIDs, ", "))

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line, ok := <-a.lines:
		if !ok {
			return false, errors.New("terminal closed")
		}
		return parseAnswer(line), nil
	}
}

func (a *TerminalApprover) readLines() {
	defer close(a.lines)

	scanner := bufio.NewScanner(a.in)
	for scanner.Scan() {
		a.lines <- scanner.Text()
	}
}

func parseAnswer(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
