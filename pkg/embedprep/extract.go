// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package embedprep

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// modelFileSuffix marks the binary model member inside an archive.
const modelFileSuffix = ".bin"

// Extract decompresses a gzipped tar archive into scratchDir and returns the
// path to the model file. Members ending in ".bin" are preferred; otherwise
// the first regular file in the scratch directory is used. All members are
// extracted, not only the chosen one. Returns *ArchiveError wrapping
// ErrNoModelFile when the archive holds no regular files.
func Extract(archivePath, scratchDir string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", &ArchiveError{Archive: archivePath, Err: err}
	}
	defer gz.Close()

	var modelPath string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &ArchiveError{Archive: archivePath, Err: err}
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		rel, err := sanitizeMemberName(hdr.Name)
		if err != nil {
			return "", &ArchiveError{Archive: archivePath, Err: err}
		}

		dst := filepath.Join(scratchDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return "", err
		}
		out, err := os.Create(dst)
		if err != nil {
			return "", err
		}
		_, cerr := io.Copy(out, tr)
		if err := out.Close(); cerr == nil {
			cerr = err
		}
		if cerr != nil {
			return "", &ArchiveError{Archive: archivePath, Err: cerr}
		}

		if modelPath == "" && strings.HasSuffix(hdr.Name, modelFileSuffix) {
			modelPath = dst
		}
	}

	if modelPath != "" {
		return modelPath, nil
	}

	// No suffix match: fall back to the first regular file in the scratch
	// directory. Best effort; the loader rejects anything unparseable.
	entries, err := os.ReadDir(scratchDir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Type().IsRegular() {
			return filepath.Join(scratchDir, e.Name()), nil
		}
	}
	return "", &ArchiveError{Archive: archivePath, Err: ErrNoModelFile}
}

// sanitizeMemberName rejects absolute and parent-escaping member names.
func sanitizeMemberName(name string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("unsafe member name %q", name)
	}
	if rel == "." {
		return "", errors.New("empty member name")
	}
	return rel, nil
}
