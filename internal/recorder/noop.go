package recorder

import "context"

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ context.Context, _ *Run) error    { return nil }
func (n *NoopRecorder) Runs(_ context.Context, _ int) ([]Run, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                 { return nil }
