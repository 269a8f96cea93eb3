package observe

import (
	"errors"
	"time"

	"github.com/jrsteele09/go-tenant-store/tenants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opInit    = "init"
	opLoad    = "load"
	opPersist = "persist"
	opDelete  = "delete"
	opList    = "list"
)

// Metrics holds the Prometheus collectors for tenant store operations.
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tenantstore",
			Name:      "operations_total",
			Help:      "Total number of tenant store operations by outcome",
		}, []string{"operation", "result"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tenantstore",
			Name:      "operation_duration_seconds",
			Help:      "Duration of tenant store operations",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"operation"}),
	}
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	m.OperationsTotal.WithLabelValues(op, result(err)).Inc()
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func result(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, tenants.ErrTenantNotFound):
		return "not_found"
	case errors.Is(err, tenants.ErrNotImplemented):
		return "not_implemented"
	default:
		return "error"
	}
}

var _ tenants.Repo = (*MetricsRepo)(nil)

// MetricsRepo records a counter and a latency sample for every call on the wrapped repo.
type MetricsRepo struct {
	next    tenants.Repo
	metrics *Metrics
}

func NewMetricsRepo(next tenants.Repo, m *Metrics) *MetricsRepo {
	return &MetricsRepo{next: next, metrics: m}
}

func (r *MetricsRepo) Init() error {
	start := time.Now()
	err := r.next.Init()
	r.metrics.observe(opInit, start, err)
	return err
}

func (r *MetricsRepo) Load(domain string) (*tenants.Tenant, error) {
	start := time.Now()
	t, err := r.next.Load(domain)
	r.metrics.observe(opLoad, start, err)
	return t, err
}

func (r *MetricsRepo) Persist(tenant *tenants.Tenant) error {
	start := time.Now()
	err := r.next.Persist(tenant)
	r.metrics.observe(opPersist, start, err)
	return err
}

func (r *MetricsRepo) Delete(domain string) (*tenants.Tenant, error) {
	start := time.Now()
	t, err := r.next.Delete(domain)
	r.metrics.observe(opDelete, start, err)
	return t, err
}

func (r *MetricsRepo) List(offset, limit int) ([]*tenants.Tenant, error) {
	start := time.Now()
	list, err := r.next.List(offset, limit)
	r.metrics.observe(opList, start, err)
	return list, err
}
