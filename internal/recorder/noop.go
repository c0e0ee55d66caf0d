package recorder

import "TrendSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScan(_ *model.Report) error                { return nil }
func (n *NoopRecorder) History(_ string, _ int) ([]HistoryEntry, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                    { return nil }
