package types

import "time"

// JobStatus represents the current status of a scan job
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// ScanJob represents a library scan job in the queue
type ScanJob struct {
	ID          string     `json:"id"`
	Status      JobStatus  `json:"status"`
	MusicDir    string     `json:"musicDir"`
	OutputDir   string     `json:"outputDir"`
	ArtistLimit int        `json:"artistLimit"`
	Artists     int        `json:"artists"`
	Errors      int        `json:"errors"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
