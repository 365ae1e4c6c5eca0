// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package embedprep

import "fmt"

// Model describes one downloadable embedding set.
type Model struct {
	// Key is the registry identifier, e.g. "w2v_100d_oa_cr".
	Key string

	// URL is the archive download location.
	URL string

	// Dim is the vector dimensionality advertised for this set.
	Dim int

	// Corpus is the source-corpus tag, e.g. "open access case reports".
	Corpus string

	// Default marks membership in the no-argument batch.
	Default bool
}

// registry is the static table of known embedding sets. Word2Vec models
// trained on the clinical_embeddings corpora, hosted as Box shared links.
var registry = []Model{
	{
		Key:     "w2v_100d_oa_cr",
		URL:     "https://upenn.box.com/shared/static/6sqzqvcunar39324adgy8qncm7yam6hu.gz",
		Dim:     100,
		Corpus:  "open access case reports",
		Default: true,
	},
	{
		Key:     "w2v_300d_oa_cr",
		URL:     "https://upenn.box.com/shared/static/s52hsf65c51e3ro0ssx79e6l25qykt0m.gz",
		Dim:     300,
		Corpus:  "open access case reports",
		Default: true,
	},
	{
		Key:     "w2v_600d_oa_cr",
		URL:     "https://upenn.box.com/shared/static/3y4h8iwg1dg2y3dqdwufspsl61usc0xv.gz",
		Dim:     600,
		Corpus:  "open access case reports",
		Default: true,
	},
	{
		Key:    "w2v_100d_oa_all",
		URL:    "https://upenn.box.com/shared/static/gkyqs962i3i2rw55a821n62ex410bi4a.gz",
		Dim:    100,
		Corpus: "open access all manuscripts",
	},
	{
		Key:    "w2v_300d_oa_all",
		URL:    "https://upenn.box.com/shared/static/9djgjigsve09a7f9vz6ubtsovqwb40xa.gz",
		Dim:    300,
		Corpus: "open access all manuscripts",
	},
}

// Models returns the full registry in declaration order.
func Models() []Model {
	out := make([]Model, len(registry))
	copy(out, registry)
	return out
}

// DefaultKeys returns the keys processed when no model is requested.
func DefaultKeys() []string {
	var keys []string
	for _, m := range registry {
		if m.Default {
			keys = append(keys, m.Key)
		}
	}
	return keys
}

// Lookup finds a model by key. Returns ErrUnknownModel for keys not in the
// registry, so callers can reject bad identifiers before any network work.
func Lookup(key string) (Model, error) {
	for _, m := range registry {
		if m.Key == key {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("%w: %q", ErrUnknownModel, key)
}

// Resolve maps keys to models, failing on the first unknown key.
func Resolve(keys []string) ([]Model, error) {
	models := make([]Model, 0, len(keys))
	for _, k := range keys {
		m, err := Lookup(k)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}
