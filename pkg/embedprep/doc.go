// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

/*
Package embedprep downloads pretrained clinical word-embedding archives and
converts them to compressed Parquet tables.

The pipeline per model is strictly sequential: fetch the archive, extract the
binary model file, parse the vocabulary-to-vector mapping, and write one
Parquet row per word with columns word, vector, and dimension. An existing
output table short-circuits the whole run; a cached archive skips only the
download.

# Quick Start

	package main

	import (
		"context"
		"log"

		"embedprep/pkg/embedprep"
	)

	func main() {
		m, err := embedprep.Lookup("w2v_100d_oa_cr")
		if err != nil {
			log.Fatal(err)
		}
		out, err := embedprep.Prepare(context.Background(), m, embedprep.Settings{
			OutputDir: "./datasets",
		}, nil)
		if err != nil {
			log.Fatal(err)
		}
		log.Println("created", out)
	}

# Model Formats

Publishers serialize embeddings in several formats without a reliable marker
byte, so LoadVectors tries each known decoder in a fixed priority order: a
headered text model, headerless text vectors, then the legacy word2vec C
binary format. Only when all three fail is the file rejected.

# Progress Events

Prepare and Run accept an optional ProgressFunc. Events cover the fetch byte
stream (throttled), stage transitions, and per-model completion, which is
enough to drive a progress bar or a log line per stage.

# Caching

Archives are kept in the cache directory and reused across runs; presence
alone is the cache-hit signal, no checksums are kept. Scratch extraction
directories live next to the archives and are removed after each successful
conversion.
*/
package embedprep
