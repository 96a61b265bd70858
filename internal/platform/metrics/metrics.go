package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los contadores Prometheus de la aplicación.
// Usa un registry propio (no el default) para poder instanciar
// más de un router en tests sin pánico por registro duplicado.
type Metrics struct {
	registry *prometheus.Registry

	ReportsCreated    prometheus.Counter
	ReportTransitions *prometheus.CounterVec
	Assignments       prometheus.Counter
	Unassignments     prometheus.Counter
	ComplianceRecords prometheus.Counter
}

// New crea y registra los contadores.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ReportsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "canine_registry_reports_created_total",
			Help: "Total de reportes de avistamiento creados",
		}),
		ReportTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "canine_registry_report_transitions_total",
			Help: "Total de transiciones de estado aplicadas, por estado destino",
		}, []string{"to"}),
		Assignments: factory.NewCounter(prometheus.CounterOpts{
			Name: "canine_registry_assignments_total",
			Help: "Total de asignaciones de reportes a personal de seguimiento",
		}),
		Unassignments: factory.NewCounter(prometheus.CounterOpts{
			Name: "canine_registry_unassignments_total",
			Help: "Total de desasignaciones de reportes",
		}),
		ComplianceRecords: factory.NewCounter(prometheus.CounterOpts{
			Name: "canine_registry_compliance_records_total",
			Help: "Total de comprobantes de pago registrados para razas peligrosas",
		}),
	}
}

// Handler expone el registry propio en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) IncReportsCreated() {
	if m == nil {
		return
	}
	m.ReportsCreated.Inc()
}

func (m *Metrics) IncTransition(to string) {
	if m == nil {
		return
	}
	m.ReportTransitions.WithLabelValues(to).Inc()
}

func (m *Metrics) IncAssignment() {
	if m == nil {
		return
	}
	m.Assignments.Inc()
}

func (m *Metrics) IncUnassignment() {
	if m == nil {
		return
	}
	m.Unassignments.Inc()
}

func (m *Metrics) IncComplianceRecord() {
	if m == nil {
		return
	}
	m.ComplianceRecords.Inc()
}
