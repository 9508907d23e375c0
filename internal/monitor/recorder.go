package monitor

import (
	"log/slog"

	"network-quality-logger/internal/models"
)

// MultiRecorder writes every result to a primary recorder and any number of
// mirrors. Only the primary's error is returned; mirror failures are logged.
type MultiRecorder struct {
	primary models.Recorder
	mirrors []models.Recorder
	log     *slog.Logger
}

// NewMultiRecorder creates a MultiRecorder
func NewMultiRecorder(logger *slog.Logger, primary models.Recorder, mirrors ...models.Recorder) *MultiRecorder {
	return &MultiRecorder{primary: primary, mirrors: mirrors, log: logger}
}

func (r *MultiRecorder) Record(result models.Result) error {
	err := r.primary.Record(result)
	for _, m := range r.mirrors {
		if mErr := m.Record(result); mErr != nil {
			r.log.Warn("Failed to mirror result", "type", result.Type, "error", mErr)
		}
	}
	return err
}
