// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package embedprep

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// testVectors builds a deterministic mapping for the given words.
func testVectors(words []string, dim int) *Vectors {
	out := &Vectors{Dim: dim}
	for i, w := range words {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = float32(i*dim+j) / 10
		}
		out.Words = append(out.Words, w)
		out.Dense = append(out.Dense, vec)
	}
	return out
}

// binaryModelBytes serializes vectors in the legacy word2vec C binary format.
func binaryModelBytes(v *Vectors) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d\n", len(v.Words), v.Dim)
	for i, w := range v.Words {
		buf.WriteString(w)
		buf.WriteByte(' ')
		for _, f := range v.Dense[i] {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
			buf.Write(b[:])
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// textModelBytes serializes vectors in the headered word2vec text format.
func textModelBytes(v *Vectors) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d\n", len(v.Words), v.Dim)
	writeTextRows(&buf, v)
	return buf.Bytes()
}

// textVectorBytes serializes vectors in the headerless text layout.
func textVectorBytes(v *Vectors) []byte {
	var buf bytes.Buffer
	writeTextRows(&buf, v)
	return buf.Bytes()
}

func writeTextRows(buf *bytes.Buffer, v *Vectors) {
	for i, w := range v.Words {
		buf.WriteString(w)
		for _, f := range v.Dense[i] {
			fmt.Fprintf(buf, " %g", f)
		}
		buf.WriteByte('\n')
	}
}

// tarGzBytes builds a gzipped tar archive from member name to content.
// A nil content adds a directory member instead of a file.
func tarGzBytes(t *testing.T, members map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range members {
		if content == nil {
			require.NoError(t, tw.WriteHeader(&tar.Header{
				Name:     name,
				Typeflag: tar.TypeDir,
				Mode:     0o755,
			}))
			continue
		}
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, content, 0o644))
}
