// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package embedprep

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// maxDim bounds the dimensionality accepted from file headers so a garbage
// header cannot drive allocations.
const maxDim = 1 << 16

// LoadVectors parses a model file, trying each known serialization in a
// fixed priority order and advancing on failure:
//
//  1. text model with a "vocab dim" header line
//  2. headerless text vectors (dimension inferred from the first row)
//  3. legacy word2vec C binary format
//
// Upstream publishers save embeddings in all three without a reliable
// file-level marker, so the caller stays format-agnostic. When every
// strategy fails, a *FormatError wrapping the last failure is returned.
func LoadVectors(path string) (*Vectors, error) {
	strategies := []struct {
		name string
		fn   func(string) (*Vectors, error)
	}{
		{"text model", loadTextModel},
		{"plain text vectors", loadTextVectors},
		{"binary vectors", loadBinaryVectors},
	}

	var lastErr error
	for _, s := range strategies {
		v, err := s.fn(path)
		if err == nil {
			return v, nil
		}
		lastErr = fmt.Errorf("%s: %w", s.name, err)
	}
	return nil, &FormatError{Path: path, Err: lastErr}
}

// loadTextModel reads the word2vec text format: a "vocab dim" header line
// followed by one "word v1 .. vdim" line per vocabulary entry.
func loadTextModel(path string) (*Vectors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := newLineScanner(f)
	if !sc.Scan() {
		return nil, scanErr(sc, errors.New("empty file"))
	}

	fields := strings.Fields(sc.Text())
	if len(fields) != 2 {
		return nil, fmt.Errorf("header: expected two counts, got %d fields", len(fields))
	}
	vocab, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	dim, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if vocab <= 0 || dim <= 0 || dim > maxDim {
		return nil, fmt.Errorf("header: implausible counts %d %d", vocab, dim)
	}

	out := &Vectors{
		Words: make([]string, 0, vocab),
		Dense: make([][]float32, 0, vocab),
		Dim:   dim,
	}
	for i := 0; i < vocab; i++ {
		if !sc.Scan() {
			return nil, scanErr(sc, fmt.Errorf("truncated: %d of %d entries", i, vocab))
		}
		word, vec, err := parseVectorLine(sc.Text(), dim)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out.Words = append(out.Words, word)
		out.Dense = append(out.Dense, vec)
	}
	return out, nil
}

// loadTextVectors reads headerless text vectors (the GloVe layout): every
// line is "word v1 .. vdim", with the dimension taken from the first line.
func loadTextVectors(path string) (*Vectors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := newLineScanner(f)
	if !sc.Scan() {
		return nil, scanErr(sc, errors.New("empty file"))
	}

	first := strings.Fields(sc.Text())
	dim := len(first) - 1
	if dim < 1 || dim > maxDim {
		return nil, fmt.Errorf("first line: no vector payload (%d fields)", len(first))
	}

	out := &Vectors{Dim: dim}
	word, vec, err := parseVectorLine(sc.Text(), dim)
	if err != nil {
		return nil, fmt.Errorf("entry 0: %w", err)
	}
	out.Words = append(out.Words, word)
	out.Dense = append(out.Dense, vec)

	for i := 1; sc.Scan(); i++ {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		word, vec, err := parseVectorLine(sc.Text(), dim)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out.Words = append(out.Words, word)
		out.Dense = append(out.Dense, vec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// loadBinaryVectors reads the legacy word2vec C binary format: an ASCII
// "vocab dim\n" header, then for each entry the word terminated by a space
// and dim little-endian IEEE 754 float32 values, optionally followed by a
// newline.
func loadBinaryVectors(path string) (*Vectors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 1<<20)
	header, err := r.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	var vocab, dim int
	if _, err := fmt.Sscanf(header, "%d %d", &vocab, &dim); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if vocab <= 0 || dim <= 0 || dim > maxDim {
		return nil, fmt.Errorf("header: implausible counts %d %d", vocab, dim)
	}

	out := &Vectors{
		Words: make([]string, 0, vocab),
		Dense: make([][]float32, 0, vocab),
		Dim:   dim,
	}
	buf := make([]byte, dim*4)
	for i := 0; i < vocab; i++ {
		word, err := readBinaryWord(r)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, word, err)
		}
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf[j*4:]))
		}
		out.Words = append(out.Words, word)
		out.Dense = append(out.Dense, vec)
	}
	return out, nil
}

// readBinaryWord reads a space-terminated word, skipping the newline that
// some writers place between entries.
func readBinaryWord(r *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == ' ' {
			break
		}
		if b == '\n' && sb.Len() == 0 {
			continue
		}
		sb.WriteByte(b)
		if sb.Len() > 1<<12 {
			return "", errors.New("word token too long")
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("empty word token")
	}
	return sb.String(), nil
}

// parseVectorLine splits "word v1 .. vdim" and checks the dimension.
func parseVectorLine(line string, dim int) (string, []float32, error) {
	fields := strings.Fields(line)
	if len(fields) != dim+1 {
		return "", nil, fmt.Errorf("expected %d values, got %d", dim, len(fields)-1)
	}
	vec := make([]float32, dim)
	for j, s := range fields[1:] {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return "", nil, err
		}
		vec[j] = float32(v)
	}
	return fields[0], vec, nil
}

func newLineScanner(f *os.File) *bufio.Scanner {
	sc := bufio.NewScanner(f)
	// 600-dimensional rows are well under this, but leave headroom.
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	return sc
}

func scanErr(sc *bufio.Scanner, fallback error) error {
	if err := sc.Err(); err != nil {
		return err
	}
	return fallback
}
