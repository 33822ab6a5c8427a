package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patternpress/patternpress"
	"github.com/patternpress/patternpress/chat"
	main "github.com/patternpress/patternpress/cmd/patternpress"
	"github.com/patternpress/patternpress/mock"
)

const sampleDoc = `# Gateway Hardening

> **Category**: Security & Hardening | **Status**: stable | **Version**: 1.2.0

## Problem Statement

Public gateways accumulate unsafe defaults. Attackers probe them constantly.

## Solution

Lock down the listener.
`

// writeTestConfig writes a config file pointing every path into dir and
// returns its location.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()

	cfg := `corpus_dir = "` + filepath.Join(dir, "patterns") + `"
output_dir = "` + filepath.Join(dir, "out") + `"
index_path = "` + filepath.Join(dir, "pattern-index.json") + `"
`
	path := filepath.Join(dir, "patternpress.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return path
}

func writeTestCorpus(t *testing.T, dir string) {
	t.Helper()

	docDir := filepath.Join(dir, "patterns", "security")
	require.NoError(t, os.MkdirAll(docDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(docDir, "gateway-hardening.md"), []byte(sampleDoc), 0644))
}

func TestCmdBuild(t *testing.T) {
	t.Parallel()

	t.Run("compiles corpus and writes index", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTestCorpus(t, dir)
		cfgPath := writeTestConfig(t, dir)

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		m := main.NewMain()
		err := m.Run(context.Background(), []string{"-c", cfgPath, "build"}, stdout, stderr)
		require.NoError(t, err)

		assert.Contains(t, stdout.String(), "Emitted 1 patterns")

		emitted := filepath.Join(dir, "out", "security", "gateway-hardening.md")
		body, err := os.ReadFile(emitted)
		require.NoError(t, err)
		assert.Contains(t, string(body), `title: "Gateway Hardening"`)

		raw, err := os.ReadFile(filepath.Join(dir, "pattern-index.json"))
		require.NoError(t, err)
		var entries []patternpress.IndexEntry
		require.NoError(t, json.Unmarshal(raw, &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "/patterns/security/gateway-hardening/", entries[0].URL)
	})

	t.Run("emits extras declared in the config", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTestCorpus(t, dir)

		readme := filepath.Join(dir, "README.md")
		require.NoError(t, os.WriteFile(readme, []byte("# Library\n\nWelcome.\n"), 0644))

		dest := filepath.Join(dir, "out", "index.md")
		cfg := `corpus_dir = "` + filepath.Join(dir, "patterns") + `"
output_dir = "` + filepath.Join(dir, "out") + `"
index_path = "` + filepath.Join(dir, "pattern-index.json") + `"

[[extras]]
source = "` + readme + `"
dest = "` + dest + `"
title = "Pattern Library"
description = "Start here."
`
		cfgPath := filepath.Join(dir, "patternpress.toml")
		require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

		m := main.NewMain()
		err := m.Run(context.Background(), []string{"-c", cfgPath, "build"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)

		body, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Contains(t, string(body), `title: "Pattern Library"`)
		assert.Contains(t, string(body), "Welcome.")
	})

	t.Run("rejects an extra naming an unknown category", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTestCorpus(t, dir)

		cfg := `corpus_dir = "` + filepath.Join(dir, "patterns") + `"
output_dir = "` + filepath.Join(dir, "out") + `"
index_path = "` + filepath.Join(dir, "pattern-index.json") + `"

[[extras]]
source = "README.md"
dest = "out/index.md"
category = "nonsense"
`
		cfgPath := filepath.Join(dir, "patternpress.toml")
		require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

		m := main.NewMain()
		err := m.Run(context.Background(), []string{"-c", cfgPath, "build"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Equal(t, patternpress.EINVALID, patternpress.ErrorCode(err))
	})

	t.Run("fails when corpus directory is missing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir)

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		m := main.NewMain()
		err := m.Run(context.Background(), []string{"-c", cfgPath, "build"}, stdout, stderr)
		require.Error(t, err)
		assert.Equal(t, patternpress.ENOTFOUND, patternpress.ErrorCode(err))
	})
}

func TestCmdSearch(t *testing.T) {
	t.Parallel()

	t.Run("ranks matches from the built index", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTestCorpus(t, dir)
		cfgPath := writeTestConfig(t, dir)

		m := main.NewMain()
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		require.NoError(t, m.Run(context.Background(), []string{"-c", cfgPath, "build"}, stdout, stderr))

		stdout.Reset()
		err := m.Run(context.Background(), []string{"-c", cfgPath, "search", "gateway"}, stdout, stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Gateway Hardening")
		assert.Contains(t, stdout.String(), "/patterns/security/gateway-hardening/")
	})

	t.Run("reports when nothing matches", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir)

		m := main.NewMain()
		m.Index = &mock.IndexLoader{
			LoadFn: func(ctx context.Context) ([]patternpress.IndexEntry, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"-c", cfgPath, "search", "zebra"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No patterns matched")
	})

	t.Run("surfaces missing index artifact", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir)

		m := main.NewMain()
		stderr := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"-c", cfgPath, "search", "gateway"}, &bytes.Buffer{}, stderr)
		require.Error(t, err)
		assert.Equal(t, patternpress.ENOTFOUND, patternpress.ErrorCode(err))
		assert.Contains(t, stderr.String(), "run the build first")
	})
}

func TestCmdKey(t *testing.T) {
	t.Parallel()

	t.Run("set saves the prompted key", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir)

		var saved string
		m := main.NewMain()
		m.ReadKey = func() (string, error) { return "  sk-test-123\n", nil }
		m.Credentials = &mock.CredentialStore{
			SetFn: func(value string) error { saved = value; return nil },
		}

		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"-c", cfgPath, "key", "set"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "sk-test-123", saved)
		assert.Contains(t, stdout.String(), "saved")
	})

	t.Run("set rejects an empty key", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir)

		m := main.NewMain()
		m.ReadKey = func() (string, error) { return "", nil }
		m.Credentials = &mock.CredentialStore{
			SetFn: func(value string) error {
				return patternpress.Errorf(patternpress.EINVALID, "API key must not be empty")
			},
		}

		err := m.Run(context.Background(), []string{"-c", cfgPath, "key", "set"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Equal(t, patternpress.EINVALID, patternpress.ErrorCode(err))
	})

	t.Run("clear removes the stored key", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir)

		deleted := false
		m := main.NewMain()
		m.Credentials = &mock.CredentialStore{
			DeleteFn: func() error { deleted = true; return nil },
		}

		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"-c", cfgPath, "key", "clear"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Contains(t, stdout.String(), "removed")
	})
}

func TestCmdChat_WiresSession(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	m := main.NewMain()
	m.Credentials = &mock.CredentialStore{
		GetFn: func() (string, error) { return "sk-test", nil },
	}
	m.Index = &mock.IndexLoader{
		LoadFn: func(ctx context.Context) ([]patternpress.IndexEntry, error) {
			return nil, nil
		},
	}

	var got *chat.Session
	m.RunChat = func(s *chat.Session) error {
		got = s
		return nil
	}

	err := m.Run(context.Background(), []string{"-c", cfgPath, "chat"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, chat.StateIdle, got.Init())
}

// Service wiring must track the command kong resolves, not the raw
// argument list, so global flags may appear on either side of the
// command name.
func TestMain_Run_FlagOrdering(t *testing.T) {
	t.Parallel()

	t.Run("global flag before the command", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTestCorpus(t, dir)
		cfgPath := writeTestConfig(t, dir)

		m := main.NewMain()
		stdout := &bytes.Buffer{}
		require.NoError(t, m.Run(context.Background(), []string{"-c", cfgPath, "build"}, stdout, &bytes.Buffer{}))

		stdout.Reset()
		err := m.Run(context.Background(), []string{"-c", cfgPath, "search", "gateway"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Gateway Hardening")
	})

	t.Run("global flag after the command", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTestCorpus(t, dir)
		cfgPath := writeTestConfig(t, dir)

		m := main.NewMain()
		stdout := &bytes.Buffer{}
		require.NoError(t, m.Run(context.Background(), []string{"build", "-c", cfgPath}, stdout, &bytes.Buffer{}))

		stdout.Reset()
		err := m.Run(context.Background(), []string{"search", "gateway", "-c", cfgPath}, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Gateway Hardening")
	})

	t.Run("chat session is wired with the flag first", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir)

		m := main.NewMain()
		m.Credentials = &mock.CredentialStore{
			GetFn: func() (string, error) { return "sk-test", nil },
		}
		m.Index = &mock.IndexLoader{
			LoadFn: func(ctx context.Context) ([]patternpress.IndexEntry, error) { return nil, nil },
		}

		var got *chat.Session
		m.RunChat = func(s *chat.Session) error { got = s; return nil }

		err := m.Run(context.Background(), []string{"-c", cfgPath, "chat"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)
		require.NotNil(t, got)
	})
}

func TestMain_Run_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	helpOutput := stdout.String()
	for _, cmd := range []string{"build", "search", "chat", "key"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
	assert.Contains(t, helpOutput, "Usage:")
}

func TestMain_Run_NoCommand(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{}, stdout, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
	assert.Contains(t, stdout.String(), "Usage:")
}
