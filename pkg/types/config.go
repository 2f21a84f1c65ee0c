package types

import (
	"errors"
	"strings"
)

// Config holds storage location parameters for opening a document store.
type Config struct {
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	FileName string `json:"file_name,omitempty" yaml:"file_name,omitempty"`
}

// DefaultFileName is the document file name used when Config.FileName is empty.
const DefaultFileName = "document.json"

// Config validation errors.
var (
	ErrDataDirEmpty    = errors.New("data directory must not be empty")
	ErrFileNameInvalid = errors.New("file name must not contain path separators")
	ErrFileNameNotJSON = errors.New("file name must end in .json")
)

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.FileName == "" {
		return nil
	}
	if strings.ContainsAny(c.FileName, `/\`) {
		return ErrFileNameInvalid
	}
	if !strings.HasSuffix(c.FileName, ".json") {
		return ErrFileNameNotJSON
	}
	return nil
}

// DocumentFileName returns the configured document file name, falling back
// to DefaultFileName.
func (c Config) DocumentFileName() string {
	if c.FileName == "" {
		return DefaultFileName
	}
	return c.FileName
}
