package xmlstore

import (
	"fmt"

	"github.com/jrsteele09/go-tenant-store/tenants"
)

var _ tenants.Repo = (*Store)(nil)

// Store keeps every tenant in a single XML file. The whole file is read by Init
// and rewritten on every Persist. Records are indexed in memory by domain.
//
// A Store is not safe for concurrent use. Concurrent Persist calls can lose
// each other's updates since each one rewrites the file from its own view of
// the collection.
type Store struct {
	path    string
	records *TenantRecordCollection
	index   map[string]int // domain -> position in records.Tenants
}

// New returns an uninitialised store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Init loads the backing file and rebuilds the domain index. On failure the
// store keeps whatever state it had before the call.
func (s *Store) Init() error {
	c, err := ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("[xmlstore Store.Init] failed to load tenants: %w", err)
	}

	index := make(map[string]int, len(c.Tenants))
	for i := range c.Tenants {
		// A domain listed twice resolves to its last record.
		index[c.Tenants[i].Domain] = i
	}

	s.records = c
	s.index = index
	return nil
}

func (s *Store) Load(domain string) (*tenants.Tenant, error) {
	if !s.ready() {
		return nil, fmt.Errorf("[xmlstore Store.Load] %w", tenants.ErrNotInitialized)
	}

	i, ok := s.index[domain]
	if !ok {
		return nil, fmt.Errorf("[xmlstore Store.Load] tenant with domain %q: %w", domain, tenants.ErrTenantNotFound)
	}
	return ToEntity(&s.records.Tenants[i]), nil
}

// Persist adds the tenant, replacing any record with the same domain, and
// rewrites the backing file. If the write fails the in-memory state keeps the
// new record, so memory and disk can differ until the next successful write.
func (s *Store) Persist(tenant *tenants.Tenant) error {
	if !s.ready() {
		return fmt.Errorf("[xmlstore Store.Persist] %w", tenants.ErrNotInitialized)
	}
	if tenant == nil {
		return fmt.Errorf("[xmlstore Store.Persist] nil tenant: %w", tenants.ErrInvalidTenant)
	}

	record := ToRecord(tenant)
	if err := validateRecord(&record); err != nil {
		return fmt.Errorf("[xmlstore Store.Persist] tenant %q: %w", record.Domain, err)
	}

	if i, ok := s.index[record.Domain]; ok {
		s.records.Tenants[i] = record
	} else {
		s.records.Tenants = append(s.records.Tenants, record)
		s.index[record.Domain] = len(s.records.Tenants) - 1
	}

	if err := WriteFile(s.path, s.records); err != nil {
		return fmt.Errorf("[xmlstore Store.Persist] failed to save tenant %q: %w", record.Domain, err)
	}
	return nil
}

// Delete is not supported by the file store and always fails with
// tenants.ErrNotImplemented.
func (s *Store) Delete(domain string) (*tenants.Tenant, error) {
	return nil, fmt.Errorf("[xmlstore Store.Delete] deleting tenant %q: %w", domain, tenants.ErrNotImplemented)
}

// List returns tenants in file order. Records shadowed by a later record with
// the same domain are skipped.
func (s *Store) List(offset, limit int) ([]*tenants.Tenant, error) {
	if !s.ready() {
		return nil, fmt.Errorf("[xmlstore Store.List] %w", tenants.ErrNotInitialized)
	}

	all := make([]*tenants.Tenant, 0, len(s.index))
	for i := range s.records.Tenants {
		if s.index[s.records.Tenants[i].Domain] != i {
			continue
		}
		all = append(all, ToEntity(&s.records.Tenants[i]))
	}
	return tenants.Page(all, offset, limit), nil
}

func (s *Store) ready() bool {
	return s.records != nil
}
