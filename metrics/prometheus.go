// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/viewtoken/crowdsale/log"
)

const namespace = "crowdsale"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics switches the facade to a prometheus backend.
// Calling it again keeps the existing backend.
func InitializePrometheusMetrics() {
	if _, ok := current().(*prometheusMetrics); !ok {
		metrics.Store(service{newPrometheusMetrics()})
	}
}

// Gatherer returns the registry behind the prometheus backend, nil if it is
// not enabled.
func Gatherer() prometheus.Gatherer {
	if pm, ok := current().(*prometheusMetrics); ok {
		return pm.registry
	}
	return nil
}

type prometheusMetrics struct {
	registry *prometheus.Registry
	meters   sync.Map
	mu       sync.Mutex
}

func newPrometheusMetrics() *prometheusMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &prometheusMetrics{registry: reg}
}

// getOrCreate returns the meter registered under kind and name, building it
// with create on first use.
func getOrCreate[T any](o *prometheusMetrics, kind, name string, create func() (prometheus.Collector, T)) T {
	key := kind + "/" + name
	if m, ok := o.meters.Load(key); ok {
		return m.(T)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if m, ok := o.meters.Load(key); ok {
		return m.(T)
	}
	collector, meter := create()
	if err := o.registry.Register(collector); err != nil {
		logger.Warn("unable to register metric", "name", name, "err", err)
	}
	o.meters.Store(key, meter)
	return meter
}

func floatBuckets(buckets []int64) []float64 {
	if len(buckets) == 0 {
		return nil
	}
	out := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, float64(b))
	}
	return out
}

func (o *prometheusMetrics) GetOrCreateHandler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}

func (o *prometheusMetrics) GetOrCreateCountMeter(name string) CountMeter {
	return getOrCreate(o, "counter", name, func() (prometheus.Collector, CountMeter) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		return c, &promCountMeter{c}
	})
}

func (o *prometheusMetrics) GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter {
	return getOrCreate(o, "counterVec", name, func() (prometheus.Collector, CountVecMeter) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return c, &promCountVecMeter{c}
	})
}

func (o *prometheusMetrics) GetOrCreateGaugeMeter(name string) GaugeMeter {
	return getOrCreate(o, "gauge", name, func() (prometheus.Collector, GaugeMeter) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		return g, &promGaugeMeter{g}
	})
}

func (o *prometheusMetrics) GetOrCreateGaugeVecMeter(name string, labels []string) GaugeVecMeter {
	return getOrCreate(o, "gaugeVec", name, func() (prometheus.Collector, GaugeVecMeter) {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name}, labels)
		return g, &promGaugeVecMeter{g}
	})
}

func (o *prometheusMetrics) GetOrCreateHistogramVecMeter(name string, labels []string, buckets []int64) HistogramVecMeter {
	return getOrCreate(o, "histogramVec", name, func() (prometheus.Collector, HistogramVecMeter) {
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets(buckets),
		}, labels)
		return h, &promHistogramVecMeter{h}
	})
}

type promCountMeter struct{ counter prometheus.Counter }

func (c *promCountMeter) Add(i int64) { c.counter.Add(float64(i)) }

type promCountVecMeter struct{ counter *prometheus.CounterVec }

func (c *promCountVecMeter) AddWithLabel(i int64, labels map[string]string) {
	c.counter.With(labels).Add(float64(i))
}

type promGaugeMeter struct{ gauge prometheus.Gauge }

func (g *promGaugeMeter) Add(i int64) { g.gauge.Add(float64(i)) }
func (g *promGaugeMeter) Set(i int64) { g.gauge.Set(float64(i)) }

type promGaugeVecMeter struct{ gauge *prometheus.GaugeVec }

func (g *promGaugeVecMeter) AddWithLabel(i int64, labels map[string]string) {
	g.gauge.With(labels).Add(float64(i))
}

func (g *promGaugeVecMeter) SetWithLabel(i int64, labels map[string]string) {
	g.gauge.With(labels).Set(float64(i))
}

type promHistogramVecMeter struct{ histogram *prometheus.HistogramVec }

func (h *promHistogramVecMeter) ObserveWithLabels(i int64, labels map[string]string) {
	h.histogram.With(labels).Observe(float64(i))
}
