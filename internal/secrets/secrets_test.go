// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Secrets
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, Password, "  hunter22  \n")
				writeFile(t, dir, BaseURL, "https://api.yoop.example\n")
				return dir
			},
			want: Secrets{
				Password: "hunter22",
				BaseURL:  "https://api.yoop.example",
			},
		},
		{
			name: "returns empty set for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Secrets{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, Login, "anna")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: Secrets{Login: "anna"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, MockSecret, "s3")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Secrets{MockSecret: "s3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), zerolog.Nop())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	writeFile(t, dir, Login, "anna")

	badPath := filepath.Join(dir, Password)
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	var logBuf bytes.Buffer
	got, err := Load(dir, zerolog.New(&logBuf))
	require.NoError(t, err)
	assert.Equal(t, "anna", got[Login])
	_, hasBad := got[Password]
	assert.False(t, hasBad, "unreadable file should not appear in result")
	assert.Contains(t, logBuf.String(), "could not read secret")
}

func TestGet(t *testing.T) {
	s := Secrets{Password: "pw"}
	assert.Equal(t, "pw", s.Get(Password, "x"))
	assert.Equal(t, "http://localhost:8080", s.Get(BaseURL, "http://localhost:8080"))

	var empty Secrets
	assert.Equal(t, "fb", empty.Get(Login, "fb"))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
