// Package types defines the Document model, the DocumentStore interface,
// and standard error types for the Trove storage system.
package types
