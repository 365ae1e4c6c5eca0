// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package embedprep

import (
	"errors"
	"fmt"
)

// Common errors returned by the library.
var (
	// ErrUnknownModel is returned when a model key is not in the registry.
	ErrUnknownModel = errors.New("unknown model identifier")

	// ErrNoModelFile is returned when an archive contains no regular files.
	ErrNoModelFile = errors.New("no model file found in archive")
)

// TransferError wraps a network or HTTP failure during archive download.
type TransferError struct {
	URL    string
	Status string // HTTP status line, empty for connection faults
	Err    error
}

func (e *TransferError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("download %s: bad status: %s", e.URL, e.Status)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// ArchiveError wraps a corrupt, unreadable, or empty archive.
type ArchiveError struct {
	Archive string
	Err     error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s: %v", e.Archive, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// FormatError is returned when every loader strategy has been exhausted.
// Err holds the failure from the last strategy tried.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized model format %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
