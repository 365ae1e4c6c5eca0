// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package embedprep

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_StreamsToDisk(t *testing.T) {
	payload := []byte("archive bytes go here")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "model.tar.gz")
	var events []ProgressEvent
	err := Fetch(context.Background(), srv.Client(), "test", srv.URL, dst, func(ev ProgressEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NotEmpty(t, events)
	assert.Equal(t, "fetch_start", events[0].Event)
	assert.Equal(t, int64(len(payload)), events[0].Total)
	last := events[len(events)-1]
	assert.Equal(t, "fetch_done", last.Event)
	assert.Equal(t, int64(len(payload)), last.Downloaded)
}

func TestFetch_FollowsRedirects(t *testing.T) {
	payload := []byte("redirected payload")
	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()
	mux.HandleFunc("/real", func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	})
	mux.HandleFunc("/shared", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+"/real", http.StatusFound)
	})

	dst := filepath.Join(t.TempDir(), "model.tar.gz")
	err := Fetch(context.Background(), srv.Client(), "test", srv.URL+"/shared", dst, func(ProgressEvent) {})
	require.NoError(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFetch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "model.tar.gz")
	err := Fetch(context.Background(), srv.Client(), "test", srv.URL, dst, func(ProgressEvent) {})

	var terr *TransferError
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Status, "404")

	// Nothing was written for a failed status.
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetch_ConnectionFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	dst := filepath.Join(t.TempDir(), "model.tar.gz")
	err := Fetch(context.Background(), buildHTTPClient(), "test", url, dst, func(ProgressEvent) {})

	var terr *TransferError
	require.ErrorAs(t, err, &terr)
}

func TestFetch_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("never read"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dst := filepath.Join(t.TempDir(), "model.tar.gz")
	err := Fetch(ctx, srv.Client(), "test", srv.URL, dst, func(ProgressEvent) {})

	var terr *TransferError
	require.ErrorAs(t, err, &terr)
	assert.ErrorIs(t, err, context.Canceled)
}
