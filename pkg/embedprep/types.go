// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package embedprep

import (
	"time"

	"go.uber.org/zap"
)

// Settings configures pipeline behavior.
//
// All fields have sensible defaults. At minimum, nothing needs to be set:
// output goes to the current directory and archives are cached under the
// per-user cache location.
type Settings struct {
	// OutputDir is the directory for converted Parquet tables.
	// Created if absent. If empty, defaults to the current directory.
	OutputDir string

	// CacheDir holds downloaded archives and scratch extraction directories.
	// Created if absent. If empty, defaults to <user cache dir>/embedprep.
	CacheDir string

	// Logger receives structured stage logs. If nil, logging is disabled.
	Logger *zap.Logger
}

// Vectors is an in-memory vocabulary-to-vector mapping with uniform
// dimensionality. Words keeps the order they appeared in the model file;
// Dense[i] is the vector for Words[i] and every vector has length Dim.
type Vectors struct {
	Words []string
	Dense [][]float32
	Dim   int
}

// Len returns the vocabulary size.
func (v *Vectors) Len() int {
	return len(v.Words)
}

// ProgressEvent represents a progress update during a pipeline run.
//
// The Event field indicates the type of event:
//   - "model_start": processing of a model has begun (Message is "i/n")
//   - "skip": the output table already exists, nothing to do
//   - "fetch_start": archive download has started
//   - "fetch_progress": periodic byte-level download update
//   - "fetch_done": archive download complete
//   - "fetch_cached": a cached archive is being reused
//   - "extract_start": archive extraction has begun
//   - "extract_done": model file located (Path holds it)
//   - "load_done": model parsed (Message holds words/dimensions)
//   - "convert_done": Parquet table written (Path holds it)
//   - "model_done": pipeline finished for this model
type ProgressEvent struct {
	// Time is when the event occurred.
	Time time.Time `json:"time"`

	// Event is the event type identifier.
	Event string `json:"event"`

	// Model is the registry key being processed.
	Model string `json:"model,omitempty"`

	// Path is the file the event refers to, when applicable.
	Path string `json:"path,omitempty"`

	// Downloaded is the cumulative bytes downloaded so far.
	Downloaded int64 `json:"downloaded,omitempty"`

	// Total is the expected size in bytes; 0 means indeterminate.
	Total int64 `json:"total,omitempty"`

	// Message contains additional context.
	Message string `json:"message,omitempty"`
}

// ProgressFunc is a callback for receiving progress events. It is invoked
// synchronously from the pipeline goroutine.
type ProgressFunc func(ProgressEvent)
