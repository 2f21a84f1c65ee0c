// Package store provides the public API for the Trove document store.
// It exposes the factory function for opening stores while keeping
// implementation details internal.
package store

import (
	"github.com/mesh-intelligence/trove/internal/store"
	"github.com/mesh-intelligence/trove/pkg/types"
)

// Open opens (or bootstraps) the document store in the configured data
// directory.
//
// Example:
//
//	s, err := store.Open(types.Config{DataDir: ".trove-db"})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	_, err = s.WithTransaction(func(doc *types.Document) error {
//	    doc.Tasks = append(doc.Tasks, types.Task{TaskID: types.NewID(), Title: "hello"})
//	    return nil
//	})
func Open(config types.Config) (types.DocumentStore, error) {
	s, err := store.Open(config)
	if err != nil {
		return nil, err
	}
	return s, nil
}
