// Package metrics exposes prometheus counters for trip operations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what handlers report to. A nil *Collector records nothing.
type Recorder interface {
	RecordCopy(success bool)
	RecordAggregation(view string)
	RecordCascadeDelete(kind string)
	RecordLogin(method string, success bool)
}

type Collector struct {
	copies       *prometheus.CounterVec
	aggregations *prometheus.CounterVec
	deletes      *prometheus.CounterVec
	logins       *prometheus.CounterVec
}

// NewCollector registers the collectors on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		copies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itinerary_trip_copies_total",
			Help: "Trip copy attempts by result.",
		}, []string{"result"}),
		aggregations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itinerary_aggregations_total",
			Help: "Computed trip views by view name.",
		}, []string{"view"}),
		deletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itinerary_cascade_deletes_total",
			Help: "Cascading deletes by deleted entity.",
		}, []string{"kind"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itinerary_logins_total",
			Help: "Login attempts by method and result.",
		}, []string{"method", "result"}),
	}

	reg.MustRegister(c.copies, c.aggregations, c.deletes, c.logins)
	return c
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func (c *Collector) RecordCopy(success bool) {
	if c == nil {
		return
	}
	c.copies.WithLabelValues(result(success)).Inc()
}

func (c *Collector) RecordAggregation(view string) {
	if c == nil {
		return
	}
	c.aggregations.WithLabelValues(view).Inc()
}

func (c *Collector) RecordCascadeDelete(kind string) {
	if c == nil {
		return
	}
	c.deletes.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordLogin(method string, success bool) {
	if c == nil {
		return
	}
	c.logins.WithLabelValues(method, result(success)).Inc()
}

// Handler serves the prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
