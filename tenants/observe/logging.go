package observe

import (
	"errors"

	"github.com/jrsteele09/go-tenant-store/tenants"
	"github.com/rs/zerolog"
)

var _ tenants.Repo = (*LoggingRepo)(nil)

// LoggingRepo logs the outcome of every call on the wrapped repo. Errors are
// logged and then returned unchanged.
type LoggingRepo struct {
	next   tenants.Repo
	logger zerolog.Logger
}

// NewLoggingRepo wraps next. If next exposes a Path method, the path is added
// to every log line.
func NewLoggingRepo(next tenants.Repo, logger zerolog.Logger) *LoggingRepo {
	if p, ok := next.(interface{ Path() string }); ok {
		logger = logger.With().Str("path", p.Path()).Logger()
	}
	return &LoggingRepo{next: next, logger: logger}
}

func (r *LoggingRepo) Init() error {
	err := r.next.Init()
	if err != nil {
		r.logger.Err(err).Msg("Could not load tenant store")
		return err
	}
	r.logger.Debug().Msg("Tenant store loaded")
	return nil
}

func (r *LoggingRepo) Load(domain string) (*tenants.Tenant, error) {
	t, err := r.next.Load(domain)
	r.event(err).Str("domain", domain).Msg("Load tenant")
	return t, err
}

func (r *LoggingRepo) Persist(tenant *tenants.Tenant) error {
	err := r.next.Persist(tenant)
	ev := r.event(err)
	if tenant != nil {
		ev = ev.Str("domain", tenant.Domain).Str("tenant_id", tenant.ID)
	}
	if err != nil {
		ev.Msg("Error occurred while saving tenant")
		return err
	}
	ev.Msg("Tenant saved")
	return nil
}

func (r *LoggingRepo) Delete(domain string) (*tenants.Tenant, error) {
	t, err := r.next.Delete(domain)
	r.event(err).Str("domain", domain).Msg("Delete tenant")
	return t, err
}

func (r *LoggingRepo) List(offset, limit int) ([]*tenants.Tenant, error) {
	list, err := r.next.List(offset, limit)
	r.event(err).Int("offset", offset).Int("limit", limit).Int("count", len(list)).Msg("List tenants")
	return list, err
}

// event picks the level for a call outcome. A missing tenant is an expected
// answer rather than a failure, so it is only logged at debug.
func (r *LoggingRepo) event(err error) *zerolog.Event {
	switch {
	case err == nil:
		return r.logger.Debug()
	case errors.Is(err, tenants.ErrTenantNotFound):
		return r.logger.Debug().Err(err)
	default:
		return r.logger.Err(err)
	}
}
