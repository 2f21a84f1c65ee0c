package types

// DocumentStore is the interface for document persistence and mutation.
// Callers open a store against a data directory, run mutations through
// WithTransaction, and close it when done.
type DocumentStore interface {
	// ReadDocument returns a deep copy of the last committed document.
	// The copy is the caller's to inspect; mutating it has no effect on
	// the store, and changes must go through WithTransaction to persist.
	// Returns ErrStoreClosed after Close.
	ReadDocument() (*Document, error)

	// WithTransaction runs mutate against the current document under the
	// store's exclusive write lock. The full load-mutate-validate-write
	// cycle happens inside the lock, so concurrent transactions serialize
	// and never lose updates. If mutate returns an error nothing is
	// written and the error is returned unchanged. On success the
	// committed document is returned.
	WithTransaction(mutate func(*Document) error) (*Document, error)

	// Close releases store resources. Idempotent: repeat calls succeed.
	// After Close, ReadDocument and WithTransaction return ErrStoreClosed.
	Close() error
}
