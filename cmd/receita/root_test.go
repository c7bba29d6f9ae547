package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "createsuperuser", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "receita dev\n", out)
}

func TestMigrateAndCreateSuperuser(t *testing.T) {
	dir := t.TempDir()
	common := []string{"--data-path", dir, "--env-file", filepath.Join(dir, "none.env"), "--log-level", "error"}

	out, err := run(t, append([]string{"migrate"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 1")

	args := append([]string{"createsuperuser", "--email", "Admin@Example.com", "--password", "s3cret!"}, common...)
	out, err = run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "superuser admin@example.com created")

	_, err = run(t, args...)
	require.Error(t, err, "duplicate email")
	assert.Contains(t, err.Error(), "already exists")
}
