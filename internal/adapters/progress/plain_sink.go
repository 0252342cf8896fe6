package progress

import (
	"context"
	"fmt"
	"io"

	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

// PlainSink writes step lines without spinners or colors, for CI logs
type PlainSink struct {
	out       io.Writer
	lastStage usecase.ExecutionStage
}

// NewPlainSink creates a sink writing to out
func NewPlainSink(out io.Writer) *PlainSink {
	return &PlainSink{out: out}
}

// OnProgress prints the message when a new stage starts
func (p *PlainSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage == p.lastStage || event.Message == "" {
		return
	}
	p.lastStage = event.Stage
	fmt.Fprintln(p.out, event.Message)
}

// Info prints an info message
func (p *PlainSink) Info(message string) {
	fmt.Fprintln(p.out, message)
}

// Error prints an error message
func (p *PlainSink) Error(message string) {
	fmt.Fprintln(p.out, message)
}

var _ usecase.ProgressSink = (*PlainSink)(nil)
