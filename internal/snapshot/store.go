// Package snapshot is a durable, per-workflow capped ring of
// pre-mutation snapshots on the local filesystem, following the
// directory-per-key and ULID-identity conventions of the teacher
// repo's NATS object-store-backed file store, adapted to plain local
// files since this server has no message bus to lean on.
package snapshot

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
)

const maxSnapshotsPerWorkflow = 20

// Trigger labels why a snapshot was captured.
type Trigger string

const (
	TriggerPreCreate        Trigger = "pre-create"
	TriggerPreUpdateWorkflow Trigger = "pre-update-workflow"
	TriggerPreUpdateNodes   Trigger = "pre-update-nodes"
	TriggerPreDelete        Trigger = "pre-delete"
	TriggerManual           Trigger = "manual"
)

// Meta is a snapshot's metadata, as recorded in the per-workflow index.
type Meta struct {
	ID           string    `json:"id"`
	WorkflowID   string    `json:"workflowId"`
	WorkflowName string    `json:"workflowName"`
	Timestamp    time.Time `json:"timestamp"`
	Trigger      Trigger   `json:"trigger"`
	Description  string    `json:"description"`
}

// Full is a snapshot's metadata plus its captured raw workflow JSON.
type Full struct {
	Meta
	Content json.RawMessage `json:"content"`
}

// Store is a filesystem-backed snapshot ring, one directory per
// workflow, capped to the most recent maxSnapshotsPerWorkflow entries.
type Store struct {
	root string
	mu   sync.Mutex

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

// New builds a store rooted at root. The caller is responsible for
// ensuring root is writable (see config.DefaultSnapshotRoot).
func New(root string) *Store {
	return &Store{
		root:    root,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (s *Store) generateID() string {
	s.entropyMu.Lock()
	defer s.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *Store) workflowDir(workflowID string) string {
	return filepath.Join(s.root, workflowID)
}

func (s *Store) indexPath(workflowID string) string {
	return filepath.Join(s.workflowDir(workflowID), "_index.json")
}

func (s *Store) snapshotPath(workflowID, snapshotID string) string {
	return filepath.Join(s.workflowDir(workflowID), snapshotID+".json")
}

// Save writes a new snapshot, prepends its metadata to the index, then
// prunes both the index and the corresponding files down to the
// maxSnapshotsPerWorkflow newest.
func (s *Store) Save(workflowID, workflowName string, trigger Trigger, description string, content json.RawMessage) (Meta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := Meta{
		ID:           s.generateID(),
		WorkflowID:   workflowID,
		WorkflowName: workflowName,
		Timestamp:    time.Now(),
		Trigger:      trigger,
		Description:  description,
	}

	dir := s.workflowDir(workflowID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Meta{}, fmt.Errorf("creating snapshot dir: %w", err)
	}

	if err := os.WriteFile(s.snapshotPath(workflowID, meta.ID), content, 0o644); err != nil {
		return Meta{}, fmt.Errorf("writing snapshot file: %w", err)
	}

	index, err := s.readIndex(workflowID)
	if err != nil {
		return Meta{}, err
	}
	index = append([]Meta{meta}, index...)
	dropped := index
	if len(index) > maxSnapshotsPerWorkflow {
		dropped = index[maxSnapshotsPerWorkflow:]
		index = index[:maxSnapshotsPerWorkflow]
	} else {
		dropped = nil
	}

	if err := s.writeIndex(workflowID, index); err != nil {
		return Meta{}, err
	}

	// Unlink every pruned file as one coordinated unit: the index has
	// already been rewritten, so a failed removal here only leaves an
	// orphaned file behind, never a dangling index entry.
	var g errgroup.Group
	for _, d := range dropped {
		path := s.snapshotPath(workflowID, d.ID)
		g.Go(func() error {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return meta, fmt.Errorf("pruning old snapshots: %w", err)
	}

	return meta, nil
}

// List returns metadata only, newest-first, optionally capped to limit.
func (s *Store) List(workflowID string, limit int) ([]Meta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readIndex(workflowID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(index) > limit {
		index = index[:limit]
	}
	return index, nil
}

// Get returns metadata plus a parsed copy of the stored JSON, or nil
// when the snapshot is missing.
func (s *Store) Get(workflowID, snapshotID string) (*Full, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readIndex(workflowID)
	if err != nil {
		return nil, err
	}
	var meta *Meta
	for i := range index {
		if index[i].ID == snapshotID {
			meta = &index[i]
			break
		}
	}
	if meta == nil {
		return nil, nil
	}

	content, err := os.ReadFile(s.snapshotPath(workflowID, snapshotID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	return &Full{Meta: *meta, Content: content}, nil
}

func (s *Store) readIndex(workflowID string) ([]Meta, error) {
	data, err := os.ReadFile(s.indexPath(workflowID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot index: %w", err)
	}
	var index []Meta
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("decoding snapshot index: %w", err)
	}
	sort.SliceStable(index, func(i, j int) bool { return index[i].Timestamp.After(index[j].Timestamp) })
	return index, nil
}

func (s *Store) writeIndex(workflowID string, index []Meta) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot index: %w", err)
	}
	if err := os.WriteFile(s.indexPath(workflowID), data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot index: %w", err)
	}
	return nil
}
