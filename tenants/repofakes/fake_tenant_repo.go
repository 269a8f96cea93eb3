package tenantrepofakes

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-tenant-store/tenants"
)

var _ tenants.Repo = (*FakeTenantRepo)(nil)

// FakeTenantRepo keeps tenants in memory, keyed by domain. Unlike the file
// store it supports Delete.
type FakeTenantRepo struct {
	tenants map[string]*tenants.Tenant
	lock    sync.RWMutex

	// Err, when set, is returned by every operation.
	Err error
}

func NewFakeTenantRepo() *FakeTenantRepo {
	return &FakeTenantRepo{
		tenants: make(map[string]*tenants.Tenant),
	}
}

func (tr *FakeTenantRepo) Init() error {
	return tr.Err
}

func (tr *FakeTenantRepo) Persist(tenantData *tenants.Tenant) error {
	if tr.Err != nil {
		return tr.Err
	}
	if tenantData == nil {
		return fmt.Errorf("nil tenant: %w", tenants.ErrInvalidTenant)
	}
	tr.lock.Lock()
	defer tr.lock.Unlock()
	if tenantData.ID == "" {
		tenantData.ID = uuid.New().String()
	}
	copied := *tenantData
	tr.tenants[tenantData.Domain] = &copied
	return nil
}

func (tr *FakeTenantRepo) Delete(domain string) (*tenants.Tenant, error) {
	if tr.Err != nil {
		return nil, tr.Err
	}
	tr.lock.Lock()
	defer tr.lock.Unlock()
	t, ok := tr.tenants[domain]
	if !ok {
		return nil, fmt.Errorf("domain %q: %w", domain, tenants.ErrTenantNotFound)
	}
	delete(tr.tenants, domain)
	return t, nil
}

func (tr *FakeTenantRepo) Load(domain string) (*tenants.Tenant, error) {
	if tr.Err != nil {
		return nil, tr.Err
	}
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	t, ok := tr.tenants[domain]
	if !ok {
		return nil, fmt.Errorf("domain %q: %w", domain, tenants.ErrTenantNotFound)
	}
	copied := *t
	return &copied, nil
}

func (tr *FakeTenantRepo) List(offset, limit int) ([]*tenants.Tenant, error) {
	if tr.Err != nil {
		return nil, tr.Err
	}
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	list := make([]*tenants.Tenant, 0, len(tr.tenants))
	for _, t := range tr.tenants {
		copied := *t
		list = append(list, &copied)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Domain < list[j].Domain
	})

	return tenants.Page(list, offset, limit), nil
}
