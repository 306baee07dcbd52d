package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearCredEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvUsername, EnvPassword, EnvTOTPSecret, EnvMFACode} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadCredentialsFromEnv(t *testing.T) {
	clearCredEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvUsername, "me@example.com")
	t.Setenv(EnvPassword, "hunter2")
	t.Setenv(EnvTOTPSecret, "JBSWY3DPEHPK3PXP")

	creds := LoadCredentials()
	assert.True(t, creds.Complete())
	assert.Equal(t, "me@example.com", creds.Username)
	assert.Equal(t, "hunter2", creds.Password)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", creds.TOTPSecret)
}

func TestLoadCredentialsUserFileFallback(t *testing.T) {
	clearCredEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, ".config", "rob", ".env")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path,
		[]byte(EnvUsername+"=file@example.com\n"+EnvPassword+"=frompass\n"), 0o600))

	creds := LoadCredentials()
	assert.Equal(t, "file@example.com", creds.Username)
	assert.Equal(t, "frompass", creds.Password)
}

func TestLoadCredentialsEnvWinsOverFile(t *testing.T) {
	clearCredEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvUsername, "env@example.com")
	t.Setenv(EnvPassword, "envpass")

	path := filepath.Join(home, ".config", "rob", ".env")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path,
		[]byte(EnvUsername+"=file@example.com\n"), 0o600))

	creds := LoadCredentials()
	assert.Equal(t, "env@example.com", creds.Username)
	assert.Equal(t, "envpass", creds.Password)
}

func TestLoadCredentialsMissing(t *testing.T) {
	clearCredEnv(t)
	t.Setenv("HOME", t.TempDir())

	creds := LoadCredentials()
	assert.False(t, creds.Complete())
}

func TestSaveCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", ".env")
	creds := Credentials{
		Username:   "me@example.com",
		Password:   "hunter2",
		TOTPSecret: "JBSWY3DPEHPK3PXP",
	}
	require.NoError(t, SaveCredentials(path, creds))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	got := ReadCredentialsFile(path)
	assert.Equal(t, creds, got)
}

func TestSaveCredentialsOmitsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, SaveCredentials(path, Credentials{Username: "only@example.com"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), EnvUsername+"=only@example.com")
	assert.NotContains(t, string(data), EnvPassword)
	assert.NotContains(t, string(data), EnvTOTPSecret)
}
