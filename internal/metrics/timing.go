package metrics

import (
	"time"

	"trajectory-service/internal/models"
	"trajectory-service/internal/utils"
)

// RequestTimer tracks the wall-clock span of one request for the response
// metadata block. Error responses carry the same metadata as successes.
type RequestTimer struct {
	Start    time.Time
	Complete time.Time
}

// StartTimer begins timing a request.
func StartTimer() *RequestTimer {
	return &RequestTimer{Start: time.Now()}
}

// Finish marks the request complete. Calling it again has no effect.
func (t *RequestTimer) Finish() {
	if t.Complete.IsZero() {
		t.Complete = time.Now()
	}
}

// LatencyMs returns the measured request latency in milliseconds.
func (t *RequestTimer) LatencyMs() float64 {
	return float64(t.Complete.Sub(t.Start).Microseconds()) / 1000.0
}

// Metadata renders the timing block for a response body.
func (t *RequestTimer) Metadata() *models.Metadata {
	return &models.Metadata{
		StartDatetime:    utils.ToRFC3339(t.Start),
		CompleteDatetime: utils.ToRFC3339(t.Complete),
	}
}
