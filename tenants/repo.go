package tenants

// Repo is the capability a tenant store exposes. Tenants are keyed by domain.
type Repo interface {
	// Init loads the backing data. It must succeed before any other call.
	Init() error
	Load(domain string) (*Tenant, error)
	Persist(tenant *Tenant) error
	Delete(domain string) (*Tenant, error)
	List(offset, limit int) ([]*Tenant, error)
}
