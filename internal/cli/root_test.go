// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintModels(t *testing.T) {
	var buf bytes.Buffer
	printModels(&buf)

	out := buf.String()
	assert.Contains(t, out, "w2v_100d_oa_cr")
	assert.Contains(t, out, "w2v_300d_oa_all")
	assert.Contains(t, out, "[DEFAULT]")
	assert.Contains(t, out, "open access case reports")
}

func newConfigTestCmd(ro *RootOpts) *cobra.Command {
	cmd := &cobra.Command{Use: "embedprep", Run: func(*cobra.Command, []string) {}}
	cmd.Flags().StringVarP(&ro.OutputDir, "output-dir", "o", "", "")
	cmd.Flags().StringVarP(&ro.CacheDir, "cache-dir", "c", "", "")
	return cmd
}

func TestApplySettingsDefaults(t *testing.T) {
	t.Run("yaml config fills unset flags", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "embedprep.yaml")
		require.NoError(t, os.WriteFile(path, []byte("output-dir: /data/out\ncache-dir: /data/cache\n"), 0o644))

		ro := &RootOpts{Config: path}
		cmd := newConfigTestCmd(ro)
		require.NoError(t, cmd.Execute())
		require.NoError(t, applySettingsDefaults(cmd, ro))

		assert.Equal(t, "/data/out", ro.OutputDir)
		assert.Equal(t, "/data/cache", ro.CacheDir)
	})

	t.Run("json config fills unset flags", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "embedprep.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"output-dir": "/json/out"}`), 0o644))

		ro := &RootOpts{Config: path}
		cmd := newConfigTestCmd(ro)
		require.NoError(t, cmd.Execute())
		require.NoError(t, applySettingsDefaults(cmd, ro))

		assert.Equal(t, "/json/out", ro.OutputDir)
	})

	t.Run("explicit flag wins over config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "embedprep.yaml")
		require.NoError(t, os.WriteFile(path, []byte("output-dir: /config/out\n"), 0o644))

		ro := &RootOpts{Config: path}
		cmd := newConfigTestCmd(ro)
		cmd.SetArgs([]string{"--output-dir", "/flag/out"})
		require.NoError(t, cmd.Execute())
		require.NoError(t, applySettingsDefaults(cmd, ro))

		assert.Equal(t, "/flag/out", ro.OutputDir)
	})

	t.Run("invalid yaml is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "embedprep.yaml")
		require.NoError(t, os.WriteFile(path, []byte(":\n  - not valid: ["), 0o644))

		ro := &RootOpts{Config: path}
		cmd := newConfigTestCmd(ro)
		require.NoError(t, cmd.Execute())
		require.Error(t, applySettingsDefaults(cmd, ro))
	})
}
