package models

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	RunInProgress = "in_progress"
	RunSuccess    = "success"
	RunPartial    = "partial"
	RunFailed     = "failed"
)

// AssetResult records the outcome of cloning one requested asset.
type AssetResult struct {
	Kind   AssetKind `json:"type"`
	ID     string    `json:"id"`
	Status string    `json:"status"` // "success" or "failed"
	Error  string    `json:"error,omitempty"`
}

// MigrationRun is the audit record for one batch. It is written once at batch
// start and once at batch end by the single worker processing it; log lines
// may be appended (and read by the WebSocket streamer) while it runs.
type MigrationRun struct {
	ID          string        `json:"id"`
	SourceID    int64         `json:"source_id"`
	DestID      int64         `json:"dest_id"`
	Assets      []AssetRef    `json:"assets"`
	Status      string        `json:"status"`
	Results     []AssetResult `json:"results"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Output      []string      `json:"output"`
	mu          sync.Mutex
}

// NewMigrationRun creates an in-progress run for a batch.
func NewMigrationRun(sourceID, destID int64, assets []AssetRef) *MigrationRun {
	return &MigrationRun{
		ID:        uuid.New().String(),
		SourceID:  sourceID,
		DestID:    destID,
		Assets:    assets,
		Status:    RunInProgress,
		StartedAt: time.Now(),
		Output:    []string{},
	}
}

// AppendLog adds a log line to the run output.
func (r *MigrationRun) AppendLog(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Output = append(r.Output, line)
}

// LogsSince returns log lines starting from the given index.
func (r *MigrationRun) LogsSince(offset int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if offset >= len(r.Output) {
		return nil
	}
	lines := make([]string, len(r.Output)-offset)
	copy(lines, r.Output[offset:])
	return lines
}

// Finish records the per-asset results and derives the terminal status.
func (r *MigrationRun) Finish(results []AssetResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Results = results
	r.Status = statusFor(results)
	now := time.Now()
	r.CompletedAt = &now
}

// MarshalJSON serializes a consistent snapshot of the run. Observers poll
// runs over the API while the batch is still appending log lines, so the
// mutable fields are copied under the mutex before encoding.
func (r *MigrationRun) MarshalJSON() ([]byte, error) {
	r.mu.Lock()
	output := make([]string, len(r.Output))
	copy(output, r.Output)
	snap := struct {
		ID          string        `json:"id"`
		SourceID    int64         `json:"source_id"`
		DestID      int64         `json:"dest_id"`
		Assets      []AssetRef    `json:"assets"`
		Status      string        `json:"status"`
		Results     []AssetResult `json:"results"`
		StartedAt   time.Time     `json:"started_at"`
		CompletedAt *time.Time    `json:"completed_at,omitempty"`
		Output      []string      `json:"output"`
	}{r.ID, r.SourceID, r.DestID, r.Assets, r.Status, r.Results, r.StartedAt, r.CompletedAt, output}
	r.mu.Unlock()

	return json.Marshal(snap)
}

// Done reports whether the run reached a terminal status.
func (r *MigrationRun) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Status != RunInProgress
}

// statusFor derives the batch status from per-asset results: success when all
// succeeded, failed when all failed, partial otherwise.
func statusFor(results []AssetResult) string {
	ok, bad := 0, 0
	for _, res := range results {
		if res.Status == RunSuccess {
			ok++
		} else {
			bad++
		}
	}
	switch {
	case bad == 0:
		return RunSuccess
	case ok == 0:
		return RunFailed
	default:
		return RunPartial
	}
}
