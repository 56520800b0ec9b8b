package domain

import "time"

// SweepRun summarizes one full cache refresh.
type SweepRun struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Attempted  int       `json:"attempted"`
	Succeeded  int       `json:"succeeded"`
	Empty      int       `json:"empty"`
	Failed     int       `json:"failed"`
	// FailedBuilds lists the build keys whose fetch failed.
	FailedBuilds []string `json:"failed_builds,omitempty"`
}

// Duration returns how long the sweep took.
func (r SweepRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
