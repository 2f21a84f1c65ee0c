package types

import (
	"errors"
	"testing"
	"time"
)

func TestMarkCompleteAndReopen(t *testing.T) {
	now := time.Date(2024, 8, 22, 10, 0, 0, 0, time.UTC)
	task := Task{TaskID: "t1", Title: "One"}

	task.MarkComplete(now)
	if !task.Completed || task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Fatalf("completion state: %+v", task)
	}

	// Idempotent: a second completion keeps the first timestamp.
	task.MarkComplete(now.Add(time.Hour))
	if !task.CompletedAt.Equal(now) {
		t.Fatal("second completion must not move CompletedAt")
	}

	task.Reopen(now.Add(2 * time.Hour))
	if task.Completed || task.CompletedAt != nil {
		t.Fatalf("reopen state: %+v", task)
	}
}

func TestTaskValidate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		task    Task
		wantErr error
	}{
		{"valid", Task{TaskID: "t", Title: "x"}, nil},
		{"missing id", Task{Title: "x"}, ErrInvalidID},
		{"missing title", Task{TaskID: "t"}, ErrInvalidName},
		{"bad mode", Task{TaskID: "t", Title: "x", RecurringMode: "sometimes"}, ErrInvalidRecurrenceRule},
		{"completedAt without completed", Task{TaskID: "t", Title: "x", CompletedAt: &now}, ErrValidationFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"empty data dir", Config{}, ErrDataDirEmpty},
		{"valid with default file", Config{DataDir: "/tmp/x"}, nil},
		{"valid with file name", Config{DataDir: "/tmp/x", FileName: "doc.json"}, nil},
		{"path separator", Config{DataDir: "/tmp/x", FileName: "a/b.json"}, ErrFileNameInvalid},
		{"wrong extension", Config{DataDir: "/tmp/x", FileName: "doc.yaml"}, ErrFileNameNotJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if got := (Config{DataDir: "x"}).DocumentFileName(); got != DefaultFileName {
		t.Fatalf("default file name %q", got)
	}
}
