// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"

	"github.com/cheggaaa/pb/v3"

	"embedprep/pkg/embedprep"
)

// barRenderer renders pipeline progress with a byte progress bar for the
// download stage and one line per other stage. Events arrive synchronously
// from the pipeline goroutine.
type barRenderer struct {
	w   io.Writer
	bar *pb.ProgressBar
}

func newBarRenderer(w io.Writer) *barRenderer {
	return &barRenderer{w: w}
}

func (r *barRenderer) Close() {
	r.finishBar()
}

func (r *barRenderer) finishBar() {
	if r.bar != nil {
		r.bar.Finish()
		r.bar = nil
	}
}

func (r *barRenderer) Handler() embedprep.ProgressFunc {
	return func(ev embedprep.ProgressEvent) {
		switch ev.Event {
		case "model_start":
			fmt.Fprintf(r.w, "[%s] processing %s\n", ev.Message, ev.Model)
		case "skip":
			fmt.Fprintf(r.w, "output already exists: %s\n", ev.Path)
		case "fetch_cached":
			fmt.Fprintf(r.w, "using cached archive: %s\n", ev.Path)
		case "fetch_start":
			r.finishBar()
			// Total 0 means the server omitted Content-Length; the bar
			// then just counts bytes.
			r.bar = pb.New64(ev.Total).Set(pb.Bytes, true).SetWriter(r.w).Start()
		case "fetch_progress":
			if r.bar != nil {
				r.bar.SetCurrent(ev.Downloaded)
			}
		case "fetch_done":
			if r.bar != nil {
				r.bar.SetCurrent(ev.Downloaded)
			}
			r.finishBar()
		case "extract_start":
			fmt.Fprintf(r.w, "extracting %s\n", ev.Path)
		case "load_done":
			fmt.Fprintf(r.w, "loaded %s\n", ev.Message)
		case "model_done":
			fmt.Fprintf(r.w, "created: %s\n", ev.Path)
		}
	}
}

// lineProgress returns a plain text handler for non-interactive output. The
// throttled byte updates are dropped so logs stay readable.
func lineProgress(w io.Writer) embedprep.ProgressFunc {
	return func(ev embedprep.ProgressEvent) {
		switch ev.Event {
		case "model_start":
			fmt.Fprintf(w, "[%s] processing %s\n", ev.Message, ev.Model)
		case "skip":
			fmt.Fprintf(w, "output already exists: %s\n", ev.Path)
		case "fetch_cached":
			fmt.Fprintf(w, "using cached archive: %s\n", ev.Path)
		case "fetch_start":
			fmt.Fprintf(w, "downloading %s (%d bytes)\n", ev.Model, ev.Total)
		case "fetch_done":
			fmt.Fprintf(w, "downloaded %s\n", ev.Path)
		case "extract_start":
			fmt.Fprintf(w, "extracting %s\n", ev.Path)
		case "load_done":
			fmt.Fprintf(w, "loaded %s\n", ev.Message)
		case "model_done":
			fmt.Fprintf(w, "created: %s\n", ev.Path)
		}
	}
}
