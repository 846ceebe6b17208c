// Package journal records install, restore, and uninstall runs as JSON
// transaction records so a failed run can be diagnosed after the fact.
// Journal writes are best-effort: callers treat errors as warnings.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/lushwind/surfboard/internal/lock"
	"github.com/lushwind/surfboard/internal/log"
)

// State represents the current state of a single transaction step.
type State string

const (
	StatePending    State = "pending"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StateSkipped    State = "skipped"
)

// Operation represents the kind of run being journaled.
type Operation string

const (
	OperationInstall   Operation = "install"
	OperationRestore   Operation = "restore"
	OperationUninstall Operation = "uninstall"
)

// Outcome is the final result of a run.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeFailed     Outcome = "failed"
	OutcomeRolledBack Outcome = "rolled_back"
)

// Step is the journaled state of one transaction step.
type Step struct {
	Name  string `json:"name"`
	State State  `json:"state"`
	Error string `json:"error,omitempty"`
}

// Record is one journaled run. A zero FinishedAt means the run never
// reached its end.
type Record struct {
	ID         string    `json:"id"`
	Operation  Operation `json:"operation"`
	Version    string    `json:"version,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Steps      []Step    `json:"steps"`
	Outcome    Outcome   `json:"outcome,omitempty"`
}

// NewRecord starts a record for a run that is about to execute.
func NewRecord(op Operation, version string) *Record {
	return &Record{
		ID:        uuid.New().String(),
		Operation: op,
		Version:   version,
		StartedAt: time.Now().UTC(),
		Steps:     []Step{},
	}
}

// StepStarted marks a step as in progress, adding it on first sight.
func (r *Record) StepStarted(name string) {
	r.setStep(name, StateInProgress, "")
}

// StepCompleted marks a step as completed.
func (r *Record) StepCompleted(name string) {
	r.setStep(name, StateCompleted, "")
}

// StepFailed marks a step as failed and keeps the error text.
func (r *Record) StepFailed(name string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	r.setStep(name, StateFailed, detail)
}

// StepSkipped marks a best-effort step that did not run, with the reason.
func (r *Record) StepSkipped(name, reason string) {
	r.setStep(name, StateSkipped, reason)
}

// Finish stamps the record with its outcome and end time.
func (r *Record) Finish(outcome Outcome) {
	r.Outcome = outcome
	r.FinishedAt = time.Now().UTC()
}

func (r *Record) setStep(name string, state State, detail string) {
	for i := range r.Steps {
		if r.Steps[i].Name == name {
			r.Steps[i].State = state
			r.Steps[i].Error = detail

			return
		}
	}

	r.Steps = append(r.Steps, Step{Name: name, State: state, Error: detail})
}

// maxRecords bounds the journal so it cannot grow without limit.
const maxRecords = 100

// journalFile is the on-disk shape, versioned for schema evolution.
type journalFile struct {
	Version int      `json:"version"`
	Records []Record `json:"records"`
}

// Append adds a record to the journal at path. The read-modify-write runs
// under a sibling flock so concurrent runs cannot lose records.
func Append(path string, rec *Record) error {
	return lock.WithLock(path+".lock", func() error {
		records, err := Load(path)
		if err != nil {
			// A broken journal must not block installs; start over.
			log.Warn("journal unreadable, starting fresh", log.Path(path), log.Err(err))
			records = nil
		}

		records = append(records, *rec)
		if len(records) > maxRecords {
			records = records[len(records)-maxRecords:]
		}

		return save(path, records)
	})
}

// Load reads all journal records, oldest first. A missing journal is
// empty, not an error.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	var jf journalFile
	if err := json.Unmarshal(data, &jf); err != nil {
		return nil, fmt.Errorf("parse journal: %w", err)
	}

	return jf.Records, nil
}

// save writes the journal atomically with the write-then-rename pattern.
func save(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create journal directory: %w", err)
	}

	data, err := json.MarshalIndent(journalFile{Version: 1, Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal journal: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write journal temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)

		return fmt.Errorf("rename journal file: %w", err)
	}

	return nil
}
