package observe_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jrsteele09/go-tenant-store/tenants"
	"github.com/jrsteele09/go-tenant-store/tenants/observe"
	tenantrepofakes "github.com/jrsteele09/go-tenant-store/tenants/repofakes"
	"github.com/jrsteele09/go-tenant-store/tenants/xmlstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		lines = append(lines, m)
	}
	return lines
}

func TestLoggingRepo_PassesThrough(t *testing.T) {
	var buf bytes.Buffer
	fake := tenantrepofakes.NewFakeTenantRepo()
	repo := observe.NewLoggingRepo(fake, zerolog.New(&buf).Level(zerolog.DebugLevel))

	require.NoError(t, repo.Init())
	require.NoError(t, repo.Persist(&tenants.Tenant{ID: "t-1", Domain: "acme.com", Name: "Acme"}))

	got, err := repo.Load("acme.com")
	require.NoError(t, err)
	require.Equal(t, "Acme", got.Name)

	_, err = repo.Load("missing.com")
	require.ErrorIs(t, err, tenants.ErrTenantNotFound)

	list, err := repo.List(0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	lines := logLines(t, &buf)
	require.Len(t, lines, 5)
	for _, l := range lines {
		require.Equal(t, "debug", l["level"])
	}
	require.Equal(t, "acme.com", lines[1]["domain"])
	require.Equal(t, "t-1", lines[1]["tenant_id"])
	require.Equal(t, "missing.com", lines[3]["domain"])
	require.Contains(t, lines[3]["error"], "tenant not found")
}

func TestLoggingRepo_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	fake := tenantrepofakes.NewFakeTenantRepo()
	fake.Err = errors.New("disk on fire")
	repo := observe.NewLoggingRepo(fake, zerolog.New(&buf).Level(zerolog.InfoLevel))

	require.EqualError(t, repo.Init(), "disk on fire")
	require.EqualError(t, repo.Persist(&tenants.Tenant{Domain: "acme.com"}), "disk on fire")

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	require.Equal(t, "error", lines[0]["level"])
	require.Equal(t, "Could not load tenant store", lines[0]["message"])
	require.Equal(t, "error", lines[1]["level"])
	require.Equal(t, "Error occurred while saving tenant", lines[1]["message"])
	require.Equal(t, "acme.com", lines[1]["domain"])
	require.Equal(t, "disk on fire", lines[1]["error"])
}

func TestLoggingRepo_StorePath(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing.xml")
	repo := observe.NewLoggingRepo(xmlstore.New(path), zerolog.New(&buf))

	err := repo.Init()
	require.ErrorIs(t, err, tenants.ErrFileNotFound)

	_, err = repo.Delete("acme.com")
	require.ErrorIs(t, err, tenants.ErrNotImplemented)

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	for _, l := range lines {
		require.Equal(t, path, l["path"])
		require.Equal(t, "error", l["level"])
	}
}
