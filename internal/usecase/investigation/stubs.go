package investigation

import (
	"context"

	"labqms/internal/domain/quality"
)

// The reference dashboard rendered controls for these without any behavior
// behind them. They fail loudly instead of pretending to work.

// UploadAttachment would store deviation evidence files.
// TODO: wire to a blob store once one is chosen.
func (s *Service) UploadAttachment(ctx context.Context, investigationID string, filename string) error {
	return quality.NotImplementedError{Feature: "file attachments"}
}

// TrendAnalysis would correlate deviations across investigations.
func (s *Service) TrendAnalysis(ctx context.Context) error {
	return quality.NotImplementedError{Feature: "trend analysis"}
}
