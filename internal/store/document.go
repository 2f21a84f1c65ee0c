// Document file read/write helpers with atomic persistence.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/trove/pkg/types"
)

// readDocumentFile loads the document file, checks the raw bytes against
// the embedded schema, decodes, and runs the referential invariant checks.
// Any failure means the stored document cannot be treated as ground truth;
// everything is wrapped in types.ErrCorruptStore except plain I/O errors,
// which are returned as-is for the caller to classify.
func readDocumentFile(path string) (*types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := validateAgainstSchema(data); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, types.ErrCorruptStore)
	}

	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: decode: %v: %w", path, err, types.ErrCorruptStore)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, types.ErrCorruptStore)
	}
	return &doc, nil
}

// writeDocumentFile atomically replaces the document file using the
// temp-file, fsync, rename pattern. A crash mid-write leaves either the old
// document or the new one visible, never a half-written file.
func writeDocumentFile(path string, doc *types.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".document-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
