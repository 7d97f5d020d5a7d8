package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"membership-portal/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelp(t *testing.T) {
	var buf bytes.Buffer
	help(&buf)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\nUsage: portal-admin <command> [flags]"))
	assert.False(t, strings.HasSuffix(out, "\n\n"), "help ends with a single newline")
	for _, cmd := range []string{"export", "stats", "add-role", "validate"} {
		assert.Contains(t, out, "  "+cmd)
	}
}

// ==========================
// Registry commands
// ==========================

func useRegistryPath(t *testing.T) string {
	t.Helper()
	previous := registryPath
	registryPath = filepath.Join(t.TempDir(), "configs", "form-registry.json")
	t.Cleanup(func() { registryPath = previous })
	return registryPath
}

func TestAddRole_StartsFromDefaultRegistry(t *testing.T) {
	path := useRegistryPath(t)

	require.NoError(t, addRole(registry.YearSecond, "Editorial Team"))

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	assert.True(t, reg.HasRole(registry.YearSecond, "Editorial Team"))
	assert.True(t, reg.HasRole(registry.YearSecond, "Technical Team"))
	assert.NotEmpty(t, reg.LastUpdated)

	require.NoError(t, validateRegistry())
}

func TestAddRole_Rejects(t *testing.T) {
	useRegistryPath(t)

	assert.Error(t, addRole("4", "Editorial Team"), "unknown year")
	assert.Error(t, addRole(registry.YearThird, "Technical Head"), "duplicate role")
}

func TestValidateRegistry_Invalid(t *testing.T) {
	path := useRegistryPath(t)

	assert.Error(t, validateRegistry(), "missing file")

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"branches": []}`), 0o644))
	assert.Error(t, validateRegistry())
}
