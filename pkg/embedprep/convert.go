// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package embedprep

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// EmbeddingRow is the output table schema: one row per vocabulary word.
type EmbeddingRow struct {
	Word      string    `parquet:"name=word, type=BYTE_ARRAY, convertedtype=UTF8"`
	Vector    []float32 `parquet:"name=vector, type=LIST, valuetype=FLOAT"`
	Dimension int32     `parquet:"name=dimension, type=INT32"`
}

// WriteParquet persists the mapping to path as a snappy-compressed Parquet
// table. Rows keep the insertion order of vecs; downstream consumers must
// not assume sorted order.
func WriteParquet(path string, vecs *Vectors) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	pw, err := writer.NewParquetWriter(fw, new(EmbeddingRow), 4)
	if err != nil {
		fw.Close()
		return fmt.Errorf("parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i, word := range vecs.Words {
		row := EmbeddingRow{
			Word:      word,
			Vector:    vecs.Dense[i],
			Dimension: int32(vecs.Dim),
		}
		if err := pw.Write(row); err != nil {
			fw.Close()
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return fw.Close()
}
