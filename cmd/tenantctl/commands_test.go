package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-tenant-store/tenants"
	"github.com/jrsteele09/go-tenant-store/tenants/xmlstore"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type cliFixture struct {
	file string
}

func setupCLI(t *testing.T) *cliFixture {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("TENANT_STORE_ENV", filepath.Join(dir, "none.env"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "json")

	f := &cliFixture{file: filepath.Join(dir, "data", "tenant-store.xml")}
	_, err := f.run(t, "create-store")
	require.NoError(t, err)
	return f
}

func (f *cliFixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCommand(&out, &errOut)
	cmd.SetArgs(append(args, "--file", f.file))
	err := cmd.Execute()
	return out.String(), err
}

func TestCreateStore(t *testing.T) {
	f := setupCLI(t)

	c, err := xmlstore.ReadFile(f.file)
	require.NoError(t, err)
	require.Empty(t, c.Tenants)

	out, err := f.run(t, "create-store")
	require.NoError(t, err)
	require.Contains(t, out, "Store already exists")
}

func TestPutAndGet(t *testing.T) {
	f := setupCLI(t)

	out, err := f.run(t, "put",
		"--id", "t-acme",
		"--domain", "acme.com",
		"--name", "Acme",
		"--admin-user", "admin",
		"--admin-email", "admin@acme.com",
		"--created", "2015-06-01T10:30:00Z",
	)
	require.NoError(t, err)
	require.Contains(t, out, "Saved tenant acme.com (t-acme)")

	out, err = f.run(t, "get", "acme.com")
	require.NoError(t, err)

	var got tenants.Tenant
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Equal(t, "t-acme", got.ID)
	require.Equal(t, "Acme", got.Name)
	require.Equal(t, "admin", got.AdminUsername)
	require.Equal(t, "admin@acme.com", got.AdminEmail)
	require.Equal(t, 2015, got.CreatedDate.Year())

	_, err = f.run(t, "get", "missing.com")
	require.ErrorIs(t, err, tenants.ErrTenantNotFound)
}

func TestPutGeneratesID(t *testing.T) {
	f := setupCLI(t)

	_, err := f.run(t, "put", "--domain", "beta.com", "--name", "Beta")
	require.NoError(t, err)

	c, err := xmlstore.ReadFile(f.file)
	require.NoError(t, err)
	require.Len(t, c.Tenants, 1)
	require.Len(t, c.Tenants[0].ID, 36)
}

func TestPutWithParent(t *testing.T) {
	f := setupCLI(t)

	_, err := f.run(t, "put", "--id", "p", "--domain", "parent.com", "--depth", "2")
	require.NoError(t, err)
	_, err = f.run(t, "put", "--id", "c", "--domain", "child.com", "--parent-domain", "parent.com", "--parent-depth", "2")
	require.NoError(t, err)

	c, err := xmlstore.ReadFile(f.file)
	require.NoError(t, err)
	require.Len(t, c.Tenants, 2)
	require.Equal(t, xmlstore.HierarchyRecord{ParentID: xmlstore.RootParentID, DepthOfHierarchy: 2}, c.Tenants[0].Hierarchy)
	require.Equal(t, xmlstore.HierarchyRecord{ParentID: "p", DepthOfHierarchy: 1}, c.Tenants[1].Hierarchy)

	_, err = f.run(t, "put", "--domain", "orphan.com", "--parent-domain", "nobody.com")
	require.ErrorIs(t, err, tenants.ErrTenantNotFound)
}

func TestListAndExport(t *testing.T) {
	f := setupCLI(t)
	for _, d := range []string{"a.com", "b.com", "c.com"} {
		_, err := f.run(t, "put", "--id", d, "--domain", d, "--name", "Tenant "+d)
		require.NoError(t, err)
	}

	out, err := f.run(t, "list", "--offset", "1", "--limit", "1")
	require.NoError(t, err)
	require.Contains(t, out, "DOMAIN")
	require.Contains(t, out, "b.com")
	require.NotContains(t, out, "a.com")
	require.NotContains(t, out, "c.com")

	out, err = f.run(t, "export")
	require.NoError(t, err)
	var list []tenants.Tenant
	require.NoError(t, yaml.Unmarshal([]byte(out), &list))
	require.Len(t, list, 3)
	require.Equal(t, "Tenant c.com", list[2].Name)
}

func TestDelete(t *testing.T) {
	f := setupCLI(t)
	_, err := f.run(t, "delete", "acme.com")
	require.ErrorIs(t, err, tenants.ErrNotImplemented)
}

func TestMissingStore(t *testing.T) {
	f := setupCLI(t)
	f.file = filepath.Join(t.TempDir(), "elsewhere.xml")

	_, err := f.run(t, "list")
	require.ErrorIs(t, err, tenants.ErrFileNotFound)
}

func TestMetricsFile(t *testing.T) {
	f := setupCLI(t)
	metrics := filepath.Join(t.TempDir(), "tenantctl.prom")

	_, err := f.run(t, "get", "acme.com")
	require.Error(t, err)

	_, err = f.run(t, "list", "--metrics-file", metrics)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	require.Contains(t, string(data), `tenantstore_operations_total{operation="init",result="success"} 1`)
	require.Contains(t, string(data), `tenantstore_operations_total{operation="list",result="success"} 1`)
}

func TestMetricsFileOnFailure(t *testing.T) {
	f := setupCLI(t)

	for name, tc := range map[string]struct {
		args []string
		want string
	}{
		"delete": {[]string{"delete", "acme.com"}, `tenantstore_operations_total{operation="delete",result="not_implemented"} 1`},
		"get":    {[]string{"get", "missing.com"}, `tenantstore_operations_total{operation="load",result="not_found"} 1`},
	} {
		t.Run(name, func(t *testing.T) {
			metrics := filepath.Join(t.TempDir(), "tenantctl.prom")

			_, err := f.run(t, append(tc.args, "--metrics-file", metrics)...)
			require.Error(t, err)

			data, err := os.ReadFile(metrics)
			require.NoError(t, err)
			require.Contains(t, string(data), `tenantstore_operations_total{operation="init",result="success"} 1`)
			require.Contains(t, string(data), tc.want)
		})
	}
}
