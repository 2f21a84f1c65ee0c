// Package store implements the document store: a single JSON document as
// source of truth, an exclusive write lock around the whole
// load-mutate-validate-write cycle, and a rebuildable SQLite query index
// over the committed state.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mesh-intelligence/trove/internal/index"
	"github.com/mesh-intelligence/trove/pkg/types"
)

// Store owns the document file and serializes all mutations against it.
// The zero value is not usable; construct with Open.
//
// The lock is owned by the instance, not the package, so tests can run
// independent stores without cross-test interference.
type Store struct {
	mu   sync.RWMutex
	open bool
	path string
	doc  *types.Document // last committed document

	idx    *index.Index
	idxErr error // deferred index rebuild failure, surfaced on query
}

// Open attaches a store to the configured data directory. The directory is
// created if missing, and a first Open bootstraps an empty document with
// the two root groups. A document that fails schema or invariant
// validation makes Open fail with types.ErrCorruptStore.
func Open(config types.Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(config.DataDir, config.DocumentFileName())
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat document: %w", err)
		}
		if err := writeDocumentFile(path, types.NewDocument()); err != nil {
			return nil, fmt.Errorf("bootstrap document: %w: %w", err, types.ErrWriteFailure)
		}
	}

	doc, err := readDocumentFile(path)
	if err != nil {
		return nil, asCorrupt(err)
	}

	idx, err := index.Open(config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open query index: %w", err)
	}

	s := &Store{open: true, path: path, doc: doc, idx: idx}
	s.idxErr = idx.Rebuild(doc)
	return s, nil
}

// Close releases store resources. Idempotent: repeat calls succeed. After
// Close, operations return types.ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false
	s.doc = nil
	return s.idx.Close()
}

// ReadDocument returns a deep copy of the last committed document without
// taking the write lock. Readers see the pre- or post-state of any
// in-flight transaction, never a partial document.
func (s *Store) ReadDocument() (*types.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return nil, types.ErrStoreClosed
	}
	return s.doc.Clone()
}

// WithTransaction runs mutate under the store's exclusive lock:
//
//	load -> validate -> mutate -> validate -> atomic write
//
// The document is re-read from durable storage inside the lock, so two
// transactions can never interleave reads and lose an update. A load
// failure aborts with types.ErrCorruptStore before mutate runs. If mutate
// returns an error the transaction aborts with that error and nothing is
// written. The mutated document is validated again before commit; failures
// abort with types.ErrValidationFailure. Write failures surface as
// types.ErrWriteFailure with nothing committed. No retries are performed;
// retry policy belongs to the caller.
//
// The lock is released on every exit path, including a panic inside
// mutate. On success the committed document (a private copy) is returned.
func (s *Store) WithTransaction(mutate func(*types.Document) error) (*types.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil, types.ErrStoreClosed
	}

	doc, err := readDocumentFile(s.path)
	if err != nil {
		return nil, asCorrupt(err)
	}

	if err := mutate(doc); err != nil {
		return nil, err
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	if err := writeDocumentFile(s.path, doc); err != nil {
		return nil, fmt.Errorf("%v: %w", err, types.ErrWriteFailure)
	}

	s.doc = doc
	s.idxErr = s.idx.Rebuild(doc)
	return doc.Clone()
}

// QueryTasks answers a filtered task query from the SQLite index. A
// rebuild failure from an earlier commit surfaces here; the committed
// document itself is unaffected by index trouble.
func (s *Store) QueryTasks(filter index.TaskFilter) ([]index.TaskRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return nil, types.ErrStoreClosed
	}
	if s.idxErr != nil {
		return nil, fmt.Errorf("query index stale: %w", s.idxErr)
	}
	return s.idx.QueryTasks(filter)
}

// validateDocument checks a mutated document against both the JSON schema
// and the referential invariants before it may be committed. This guards
// against a buggy mutate closure producing an inconsistent tree or a
// dangling reference.
func validateDocument(doc *types.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode for validation: %v: %w", err, types.ErrValidationFailure)
	}
	if err := validateAgainstSchema(data); err != nil {
		return fmt.Errorf("%v: %w", err, types.ErrValidationFailure)
	}
	if err := doc.Validate(); err != nil {
		if errors.Is(err, types.ErrValidationFailure) {
			return err
		}
		return fmt.Errorf("%v: %w", err, types.ErrValidationFailure)
	}
	return nil
}

// asCorrupt classifies a load failure: schema and invariant failures are
// already tagged ErrCorruptStore by readDocumentFile; plain I/O failures
// get the same tag, since either way the stored document cannot be
// trusted as ground truth.
func asCorrupt(err error) error {
	if errors.Is(err, types.ErrCorruptStore) {
		return err
	}
	return fmt.Errorf("%v: %w", err, types.ErrCorruptStore)
}
