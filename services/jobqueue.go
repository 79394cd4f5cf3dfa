package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"melodex/config"
	"melodex/types"
	"melodex/websocket"

	"github.com/google/uuid"
)

// JobQueue interface defines the methods for managing scan jobs
type JobQueue interface {
	Start()
	AddJob(musicDir, outputDir string, artistLimit int) *types.ScanJob
	GetJob(id string) (*types.ScanJob, bool)
	GetAllJobs() []*types.ScanJob
	CancelJob(id string) bool
	UpdateJobProgress(id, currentArtist string, done, total, errorCount int)
	SetJobStatus(id string, status types.JobStatus, errorMsg string)
}

// jobQueue manages library scan jobs
type jobQueue struct {
	jobs       map[string]*types.ScanJob
	queue      chan *types.ScanJob
	activeJobs map[string]*types.ScanJob
	mu         sync.RWMutex
	maxWorkers int
	hub        websocket.Hub
}

// NewJobQueue creates a new scan job queue
func NewJobQueue(maxWorkers int, hub websocket.Hub) JobQueue {
	return &jobQueue{
		jobs:       make(map[string]*types.ScanJob),
		queue:      make(chan *types.ScanJob, 100), // Buffer for 100 jobs
		activeJobs: make(map[string]*types.ScanJob),
		maxWorkers: maxWorkers,
		hub:        hub,
	}
}

// AddJob adds a new scan job to the queue. Empty musicDir/outputDir fall
// back to the configured defaults.
func (jq *jobQueue) AddJob(musicDir, outputDir string, artistLimit int) *types.ScanJob {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	if musicDir == "" {
		musicDir = config.GetMusicDir()
	}
	if outputDir == "" {
		outputDir = config.GetOutputLocation()
	}

	job := &types.ScanJob{
		ID:          uuid.New().String(),
		Status:      types.JobStatusQueued,
		MusicDir:    musicDir,
		OutputDir:   outputDir,
		ArtistLimit: artistLimit,
		CreatedAt:   time.Now(),
	}

	jq.jobs[job.ID] = job
	jq.queue <- job

	return job
}

// GetJob retrieves a job by ID
func (jq *jobQueue) GetJob(id string) (*types.ScanJob, bool) {
	jq.mu.RLock()
	defer jq.mu.RUnlock()
	job, exists := jq.jobs[id]
	return job, exists
}

// GetAllJobs returns all jobs
func (jq *jobQueue) GetAllJobs() []*types.ScanJob {
	jq.mu.RLock()
	defer jq.mu.RUnlock()

	jobs := make([]*types.ScanJob, 0, len(jq.jobs))
	for _, job := range jq.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// CancelJob cancels a queued job
func (jq *jobQueue) CancelJob(id string) bool {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	job, exists := jq.jobs[id]
	if !exists {
		return false
	}

	if job.Status == types.JobStatusQueued {
		job.Status = types.JobStatusCancelled
		now := time.Now()
		job.CompletedAt = &now
		return true
	}

	return false
}

// UpdateJobProgress updates per-artist scan progress
func (jq *jobQueue) UpdateJobProgress(id, currentArtist string, done, total, errorCount int) {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	if job, exists := jq.jobs[id]; exists {
		job.Artists = done
		job.Errors = errorCount

		// Broadcast progress update via WebSocket
		if jq.hub != nil && total > 0 {
			progressPercent := float64(done) / float64(total) * 100
			jq.hub.BroadcastProgress(id, "progress", string(job.Status), currentArtist,
				fmt.Sprintf("Scanned %d of %d artists", done, total), progressPercent, errorCount)
		}
	}
}

// SetJobStatus updates job status
func (jq *jobQueue) SetJobStatus(id string, status types.JobStatus, errorMsg string) {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	if job, exists := jq.jobs[id]; exists {
		job.Status = status
		if errorMsg != "" {
			job.Error = errorMsg
		}

		now := time.Now()
		if status == types.JobStatusProcessing && job.StartedAt == nil {
			job.StartedAt = &now
			jq.activeJobs[id] = job
		} else if status == types.JobStatusCompleted || status == types.JobStatusFailed || status == types.JobStatusCancelled {
			job.CompletedAt = &now
			delete(jq.activeJobs, id)
		}

		// Broadcast status update via WebSocket
		if jq.hub != nil {
			msgType := "status"
			message := string(status)
			progress := 0.0

			if status == types.JobStatusCompleted {
				msgType = "complete"
				progress = 100.0
				message = fmt.Sprintf("Scan of %s completed: %d artists, %d errors", job.MusicDir, job.Artists, job.Errors)
			} else if status == types.JobStatusFailed {
				msgType = "error"
				message = errorMsg
			} else if status == types.JobStatusProcessing {
				message = fmt.Sprintf("Started scanning %s", job.MusicDir)
			}

			jq.hub.BroadcastProgress(id, msgType, string(status), "", message, progress, job.Errors)
		}
	}
}

// Start begins processing jobs
func (jq *jobQueue) Start() {
	for i := 0; i < jq.maxWorkers; i++ {
		go jq.worker()
	}
}

// worker processes scan jobs from the queue
func (jq *jobQueue) worker() {
	for job := range jq.queue {
		// Re-read under the lock; the job may have been cancelled while
		// it sat in the queue
		if current, exists := jq.GetJob(job.ID); !exists || current.Status == types.JobStatusCancelled {
			continue
		}

		jq.SetJobStatus(job.ID, types.JobStatusProcessing, "")

		if err := jq.processScanJob(job); err != nil {
			jq.SetJobStatus(job.ID, types.JobStatusFailed, err.Error())
			log.Printf("Scan job %s failed: %v", job.ID, err)
		} else {
			jq.SetJobStatus(job.ID, types.JobStatusCompleted, "")
			log.Printf("Scan job %s completed successfully", job.ID)
		}
	}
}

// processScanJob runs the library scan for one job and saves the reports
func (jq *jobQueue) processScanJob(job *types.ScanJob) error {
	if !DirExists(job.MusicDir) {
		return fmt.Errorf("music directory does not exist: %s", job.MusicDir)
	}

	scanner := NewLibraryScanner(NewMetadataProbe(), func(artistName string, done, total, errorCount int) {
		jq.UpdateJobProgress(job.ID, artistName, done, total, errorCount)
	})

	artists, procErrs := scanner.ScanDirectory(job.MusicDir, job.ArtistLimit)
	result := &types.ScanResult{Artists: artists, Errors: procErrs}

	jq.mu.Lock()
	job.Artists = len(artists)
	job.Errors = len(procErrs)
	jq.mu.Unlock()

	if _, _, err := NewReportWriter().Save(result, job.OutputDir); err != nil {
		return fmt.Errorf("could not save scan report: %w", err)
	}
	return nil
}
