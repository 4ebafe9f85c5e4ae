package headless

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tessera-io/tessera/pkg/session"
	"github.com/tessera-io/tessera/pkg/toolsched"
	"github.com/tessera-io/tessera/pkg/transport"
)

// Runner renders a packet stream non-interactively: animation smoothing is
// collapsed to zero, the stream is drained to completion, and the final
// answer is printed once at the end.
type Runner struct {
	source transport.Source
	output *Output

	mu   sync.Mutex
	last session.View
	have bool
}

// NewRunner creates a headless runner for the given source, writing to w
// (os.Stdout when nil).
func NewRunner(source transport.Source, w io.Writer) *Runner {
	if w == nil {
		w = os.Stdout
	}
	return &Runner{
		source: source,
		output: NewOutput(w),
	}
}

// Run drains the source and prints the rendered result. Returns an error if
// the stream fails or if it ends without a complete answer.
func (r *Runner) Run(ctx context.Context) error {
	sess := session.New(toolsched.DefaultOptions(false), r.capture)
	defer sess.Close()

	if err := r.source.Stream(ctx, sess.HandleUpdate); err != nil {
		return fmt.Errorf("stream failed: %w", err)
	}

	// the stream ended; confirm the render so the completion gate can open
	sess.RenderComplete()

	r.mu.Lock()
	view, have := r.last, r.have
	r.mu.Unlock()

	if !have {
		return fmt.Errorf("stream ended without packets")
	}

	r.output.Print(view)

	if !view.Snapshot.StopSeen {
		return fmt.Errorf("stream ended before the stop packet")
	}
	return nil
}

func (r *Runner) capture(view session.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = view
	r.have = true
}
