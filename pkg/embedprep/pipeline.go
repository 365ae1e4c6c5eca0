// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package embedprep

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// OutputPath returns the output table location for a model key.
func OutputPath(outputDir, key string) string {
	return filepath.Join(outputDir, key+"_embeddings.parquet")
}

// archivePath returns the cached archive location for a model key.
func archivePath(cacheDir, key string) string {
	return filepath.Join(cacheDir, key+".tar.gz")
}

// withDefaults fills unset Settings fields.
func (s Settings) withDefaults() (Settings, error) {
	if s.OutputDir == "" {
		s.OutputDir = "."
	}
	if s.CacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return s, fmt.Errorf("resolve cache dir: %w", err)
		}
		s.CacheDir = filepath.Join(base, "embedprep")
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
	return s, nil
}

// Prepare runs the pipeline for one model: fetch, extract, load, convert.
//
// Two short-circuits apply before any work: an existing output table returns
// immediately, and a cached archive skips the fetch. The scratch extraction
// directory is cleared before use and removed on success; the archive stays
// in cache for later runs. Returns the output table path.
func Prepare(ctx context.Context, m Model, cfg Settings, progress ProgressFunc) (string, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return "", err
	}
	log := cfg.Logger.With(zap.String("model", m.Key))

	emit := func(ev ProgressEvent) {
		if progress != nil {
			if ev.Time.IsZero() {
				ev.Time = time.Now()
			}
			if ev.Model == "" {
				ev.Model = m.Key
			}
			progress(ev)
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return "", err
	}
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return "", err
	}

	out := OutputPath(cfg.OutputDir, m.Key)
	if _, err := os.Stat(out); err == nil {
		log.Info("output table exists, skipping", zap.String("path", out))
		emit(ProgressEvent{Event: "skip", Path: out})
		return out, nil
	}

	archive := archivePath(cfg.CacheDir, m.Key)
	if _, err := os.Stat(archive); err == nil {
		log.Info("using cached archive", zap.String("path", archive))
		emit(ProgressEvent{Event: "fetch_cached", Path: archive})
	} else {
		log.Info("downloading archive", zap.String("url", m.URL))
		if err := Fetch(ctx, buildHTTPClient(), m.Key, m.URL, archive, emit); err != nil {
			return "", err
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Extraction always starts from a freshly-cleared scratch directory, so
	// leftovers from a crashed run cannot leak into this one.
	scratch := filepath.Join(cfg.CacheDir, m.Key)
	if err := os.RemoveAll(scratch); err != nil {
		return "", err
	}
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return "", err
	}

	emit(ProgressEvent{Event: "extract_start", Path: archive})
	modelFile, err := Extract(archive, scratch)
	if err != nil {
		return "", err
	}
	log.Info("extracted model file", zap.String("path", modelFile))
	emit(ProgressEvent{Event: "extract_done", Path: modelFile})

	vecs, err := LoadVectors(modelFile)
	if err != nil {
		return "", err
	}
	log.Info("loaded vectors", zap.Int("words", vecs.Len()), zap.Int("dim", vecs.Dim))
	emit(ProgressEvent{
		Event:   "load_done",
		Path:    modelFile,
		Message: fmt.Sprintf("%d words, %d dimensions", vecs.Len(), vecs.Dim),
	})

	if err := WriteParquet(out, vecs); err != nil {
		return "", err
	}
	log.Info("wrote output table", zap.String("path", out), zap.Int("rows", vecs.Len()))
	emit(ProgressEvent{Event: "convert_done", Path: out})

	if err := os.RemoveAll(scratch); err != nil {
		return "", err
	}
	return out, nil
}

// Run processes models sequentially. The first failure aborts the batch and
// is returned as-is; models after it are never attempted.
func Run(ctx context.Context, models []Model, cfg Settings, progress ProgressFunc) error {
	emit := func(ev ProgressEvent) {
		if progress != nil {
			if ev.Time.IsZero() {
				ev.Time = time.Now()
			}
			progress(ev)
		}
	}

	for i, m := range models {
		emit(ProgressEvent{
			Event:   "model_start",
			Model:   m.Key,
			Message: fmt.Sprintf("%d/%d", i+1, len(models)),
		})
		out, err := Prepare(ctx, m, cfg, progress)
		if err != nil {
			return fmt.Errorf("model %s: %w", m.Key, err)
		}
		emit(ProgressEvent{Event: "model_done", Model: m.Key, Path: out})
	}
	return nil
}
