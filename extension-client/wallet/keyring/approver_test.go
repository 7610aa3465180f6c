package keyring

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) prompts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Count(b.buf.String(), "[y/N]")
}

type approval struct {
	ok  bool
	err error
}

func approveAsync(ctx context.Context, a *TerminalApprover) <-chan approval {
	done := make(chan approval, 1)
	go func() {
		ok, err := a.Approve(ctx, []string{"pulsar-dev-1"})
		done <- approval{ok, err}
	}()
	return done
}

func waitPrompts(t *testing.T, out *lockedBuffer, n int) {
	require.Eventually(t, func() bool { return out.prompts() == n }, time.Second, time.Millisecond)
}

func TestTerminalApproverAfterCancelledPrompt(t *testing.T) {
	in, writer := io.Pipe()
	defer writer.Close()
	out := &lockedBuffer{}
	a := newTerminalApprover(in, out, true)

	ctx, cancel := context.WithCancel(context.Background())
	first := approveAsync(ctx, a)
	waitPrompts(t, out, 1)
	cancel()
	res := <-first
	assert.False(t, res.ok)
	assert.True(t, errors.Is(res.err, context.Canceled))

	second := approveAsync(context.Background(), a)
	waitPrompts(t, out, 2)
	_, err := io.WriteString(writer, "yes\n")
	require.NoError(t, err)

	select {
	case res := <-second:
		require.NoError(t, res.err)
		assert.True(t, res.ok)
	case <-time.After(time.Second):
		t.Fatal("answer did not reach the pending prompt")
	}
}

func TestTerminalApproverDropsStaleAnswer(t *testing.T) {
	in, writer := io.Pipe()
	defer writer.Close()
	out := &lockedBuffer{}
	a := newTerminalApprover(in, out, true)

	ctx, cancel := context.WithCancel(context.Background())
	first := approveAsync(ctx, a)
	waitPrompts(t, out, 1)
	cancel()
	<-first

	// typed after the caller stopped waiting
	_, err := io.WriteString(writer, "y\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(a.lines) == 1 }, time.Second, time.Millisecond)

	second := approveAsync(context.Background(), a)
	waitPrompts(t, out, 2)
	_, err = io.WriteString(writer, "no\n")
	require.NoError(t, err)

	res := <-second
	require.NoError(t, res.err)
	assert.False(t, res.ok)
}

func TestTerminalApproverClosedInput(t *testing.T) {
	in, writer := io.Pipe()
	out := &lockedBuffer{}
	a := newTerminalApprover(in, out, true)

	pending := approveAsync(context.Background(), a)
	waitPrompts(t, out, 1)
	require.NoError(t, writer.Close())

	res := <-pending
	assert.False(t, res.ok)
	assert.Error(t, res.err)

	ok, err := a.Approve(context.Background(), []string{"pulsar-dev-1"})
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestTerminalApproverWithoutTerminal(t *testing.T) {
	out := &lockedBuffer{}
	a := newTerminalApprover(strings.NewReader("y\n"), out, false)

	ok, err := a.Approve(context.Background(), []string{"pulsar-dev-1"})
	assert.False(t, ok)
	assert.Error(t, err)
	assert.Zero(t, out.prompts())
}
