// Package prom exports tick, anomaly and tamper metrics to Prometheus.
package prom

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "missioncore"

type Recorder struct {
	ticks          *prometheus.CounterVec
	conflicts      prometheus.Counter
	failures       *prometheus.CounterVec
	anomalies      *prometheus.CounterVec
	tampers        *prometheus.CounterVec
	population     *prometheus.GaugeVec
	sustainability *prometheus.GaugeVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "ticks_total", Help: "Engine transitions applied.",
		}, []string{"engine"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "conflicts_total", Help: "Writes rejected by optimistic checks.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "failures_total", Help: "Failed operations.",
		}, []string{"op"}),
		anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "anomalies_total", Help: "Population anomalies flagged.",
		}, []string{"lineage"}),
		tampers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "ledger_tamper_total", Help: "Ledger verifications that found a broken chain.",
		}, []string{"ledger"}),
		population: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "ecosystem_population", Help: "Latest total population per lineage.",
		}, []string{"lineage"}),
		sustainability: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "habitat_sustainability_index", Help: "Latest sustainability index per habitat.",
		}, []string{"habitat"}),
	}
	for _, c := range []prometheus.Collector{r.ticks, r.conflicts, r.failures, r.anomalies, r.tampers, r.population, r.sustainability} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return r, nil
}

func (r *Recorder) RecordTick(engine string) { r.ticks.WithLabelValues(engine).Inc() }

func (r *Recorder) RecordConflict() { r.conflicts.Inc() }

func (r *Recorder) RecordFailure(op string) { r.failures.WithLabelValues(op).Inc() }

func (r *Recorder) RecordAnomaly(lineageID string) { r.anomalies.WithLabelValues(lineageID).Inc() }

func (r *Recorder) RecordTamper(ledgerID string) { r.tampers.WithLabelValues(ledgerID).Inc() }

func (r *Recorder) ObservePopulation(lineageID string, total int) {
	r.population.WithLabelValues(lineageID).Set(float64(total))
}

func (r *Recorder) ObserveSustainability(habitatID string, index float64) {
	r.sustainability.WithLabelValues(habitatID).Set(index)
}

// Handler serves the exposition format for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
