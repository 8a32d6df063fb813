package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	DBQueryDuration   *prometheus.HistogramVec
	CacheLookups      *prometheus.CounterVec
	AttendanceMarked  *prometheus.CounterVec
	EmployeesCreated  prometheus.Counter
	EmployeesDeleted  prometheus.Counter
	ViewInvalidations *prometheus.CounterVec
}

// NewMetrics registers every collector on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction never collides.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hris_db_query_duration_seconds",
			Help:    "Duration of record store queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}),
		CacheLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hris_cache_lookups_total",
			Help: "Query cache lookups partitioned by result.",
		}, []string{"result"}),
		AttendanceMarked: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hris_attendance_marked_total",
			Help: "Attendance records created or overwritten, by status.",
		}, []string{"status"}),
		EmployeesCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "hris_employees_created_total",
			Help: "Employees registered.",
		}),
		EmployeesDeleted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "hris_employees_deleted_total",
			Help: "Employees deleted.",
		}),
		ViewInvalidations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hris_view_invalidations_total",
			Help: "Cached views invalidated by mutations, by view prefix.",
		}, []string{"view"}),
	}

	metrics.CacheLookups.WithLabelValues("hit")
	metrics.CacheLookups.WithLabelValues("miss")

	return metrics
}

// ObserveQuery records the elapsed time since start under queryType.
// Use it as: defer m.ObserveQuery("list_employees", time.Now())
func (m *Metrics) ObserveQuery(queryType string, start time.Time) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(start).Seconds())
}
