// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package embedprep

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"
)

// progressReader wraps an io.Reader and emits progress events during reads.
type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	model      string
	emit       func(ProgressEvent)
	lastEmit   time.Time
	interval   time.Duration
}

func newProgressReader(r io.Reader, total int64, model string, emit func(ProgressEvent)) *progressReader {
	return &progressReader{
		reader:   r,
		total:    total,
		model:    model,
		emit:     emit,
		lastEmit: time.Now(),
		interval: 200 * time.Millisecond, // Emit at most 5 times per second
	}
}

func (pr *progressReader) Read(p []byte) (n int, err error) {
	n, err = pr.reader.Read(p)
	if n > 0 {
		pr.downloaded += int64(n)
		// Throttle emissions to avoid flooding
		if time.Since(pr.lastEmit) >= pr.interval || err == io.EOF {
			pr.emit(ProgressEvent{
				Event:      "fetch_progress",
				Model:      pr.model,
				Downloaded: pr.downloaded,
				Total:      pr.total,
			})
			pr.lastEmit = time.Now()
		}
	}
	return n, err
}

// buildHTTPClient creates an HTTP client with sensible defaults. Redirects
// are followed by the default client policy, which the Box shared links rely
// on.
func buildHTTPClient() *http.Client {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: tr}
}

// Fetch streams url to dst, emitting byte-level progress against the declared
// content length (total 0 when the server omits it). A non-2xx status or
// connection fault returns a *TransferError. There is no retry; a partial
// file left behind on failure is the caller's to deal with.
func Fetch(ctx context.Context, httpc *http.Client, model, url, dst string, emit func(ProgressEvent)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &TransferError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", "embedprep/1")

	resp, err := httpc.Do(req)
	if err != nil {
		return &TransferError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransferError{URL: url, Status: resp.Status}
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}
	emit(ProgressEvent{Event: "fetch_start", Model: model, Path: dst, Total: total})

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	pr := newProgressReader(resp.Body, total, model, emit)
	_, cerr := io.Copy(out, pr)
	if err := out.Close(); cerr == nil {
		cerr = err
	}
	if cerr != nil {
		return &TransferError{URL: url, Err: cerr}
	}

	emit(ProgressEvent{Event: "fetch_done", Model: model, Path: dst, Downloaded: pr.downloaded, Total: total})
	return nil
}
