// Package audit carries deep-audit jobs from the preview path to background
// workers.
package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dossier/internal/domain"
)

// Job asks for a deep audit of one subject.
type Job struct {
	ID          uuid.UUID      `json:"id"`
	Subject     domain.Subject `json:"subject"`
	Seeds       []string       `json:"seeds,omitempty"`
	RequestedAt time.Time      `json:"requested_at"`
}

func NewJob(subject domain.Subject, seeds []string, now time.Time) Job {
	return Job{
		ID:          uuid.New(),
		Subject:     subject,
		Seeds:       append([]string(nil), seeds...),
		RequestedAt: now,
	}
}

func (j Job) Key() string {
	return j.Subject.ID
}

func encodeJob(j Job) ([]byte, error) {
	return json.Marshal(j)
}

func decodeJob(raw []byte) (Job, error) {
	var j Job
	if err := json.Unmarshal(raw, &j); err != nil {
		return Job{}, fmt.Errorf("decode audit job: %w", err)
	}
	if err := j.Subject.Validate(); err != nil {
		return Job{}, fmt.Errorf("decode audit job %s: %w", j.ID, err)
	}
	return j, nil
}
