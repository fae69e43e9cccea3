// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build mage

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/yoop/pkg/types"
)

func TestInitCreatesDefaultStoreDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, Init())

	for _, want := range []string{".secrets", types.DefaultDataDir} {
		fi, err := os.Stat(filepath.Join(dir, want))
		require.NoError(t, err, want)
		assert.True(t, fi.IsDir(), want)
	}
	_, err := os.Stat(filepath.Join(dir, "data"))
	assert.True(t, os.IsNotExist(err))
}

func TestCountGoLinesSkipsHiddenAndUnderscoreDirs(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, body string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	write("a.go", "package a\n\nfunc A() {}\n")
	write("a_test.go", "package a\n")
	write("_examples/x.go", "package x\n")
	write(".yoop/y.go", "package y\n")
	t.Chdir(dir)

	prod, test, err := countGoLines(".")
	require.NoError(t, err)
	assert.Equal(t, 2, prod)
	assert.Equal(t, 1, test)
}
