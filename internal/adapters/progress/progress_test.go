package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

func TestPlainSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewPlainSink(&buf)
	ctx := context.Background()

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageDeployingFactory, Message: "Deploying PumpFunFactory...", Spinner: true})
	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageDeployingFactory, Message: "Deploying PumpFunFactory...", Spinner: true})
	sink.Info("PumpFunFactory deployed to: 0x0F")
	sink.Error("Error verifying PumpFunFactory: boom")

	assert.Equal(t, "Deploying PumpFunFactory...\nPumpFunFactory deployed to: 0x0F\nError verifying PumpFunFactory: boom\n", buf.String())
}

func TestSpinnerProgressReporter_Trail(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	r := NewSpinnerProgressReporter(&buf)
	ctx := context.Background()

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageDeployingFactory, Message: "factory"})
	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageDeployingMain, Message: "main"})

	trail := r.trail()
	assert.Contains(t, trail, "✓ Deploying factory")
	assert.Contains(t, trail, "● Deploying main contract")
	assert.NotContains(t, trail, "Verifying")

	r.Info("hello")
	assert.Contains(t, buf.String(), "hello")

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageCompleted})
	assert.False(t, r.spinner.Active())
}
