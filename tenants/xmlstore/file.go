package xmlstore

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/jrsteele09/go-tenant-store/internal/errors"
	"github.com/jrsteele09/go-tenant-store/tenants"
)

const filePerm fs.FileMode = 0o644

// ReadFile reads and decodes the whole store file at path.
func ReadFile(path string) (*TenantRecordCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = errors.Mark(err, tenants.ErrFileNotFound)
		}
		return nil, errors.Mark(fmt.Errorf("[xmlstore ReadFile] %w", err), tenants.ErrStorageUnavailable)
	}

	c, err := DecodeAll(data)
	if err != nil {
		return nil, errors.Wrapf(err, "[xmlstore ReadFile] %s", path)
	}
	return c, nil
}

// WriteFile replaces the contents of the store file at path with the encoded collection.
func WriteFile(path string, c *TenantRecordCollection) error {
	data, err := EncodeAll(c)
	if err != nil {
		return errors.Wrapf(err, "[xmlstore WriteFile] %s", path)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return errors.Mark(fmt.Errorf("[xmlstore WriteFile] %w", err), tenants.ErrStorageUnavailable)
	}
	return nil
}
