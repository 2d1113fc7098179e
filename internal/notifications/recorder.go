package notifications

import (
	"sync"

	"lapak/internal/models"
)

// Recorder is an in-memory Notifier for tests. It records every send and
// can be configured to fail.
type Recorder struct {
	mu   sync.Mutex
	sent []Envelope

	// Err, when set, is returned by every Send without recording.
	Err error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Send records the notification, or fails with the configured error.
func (r *Recorder) Send(kind Kind, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, NewEnvelope(kind, order))
	return nil
}

// Sent returns a copy of the recorded envelopes in send order.
func (r *Recorder) Sent() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Envelope, len(r.sent))
	copy(out, r.sent)
	return out
}
