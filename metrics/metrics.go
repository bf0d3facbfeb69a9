// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics is a small facade over the sale's meters. It starts as a
// no-op and switches to prometheus once InitializePrometheusMetrics is called.
package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
)

var metrics atomic.Value

func init() {
	metrics.Store(service{defaultNoopMetrics()})
}

type service struct{ Metrics }

func current() Metrics { return metrics.Load().(service).Metrics }

// Metrics is implemented by the metric backends.
type Metrics interface {
	GetOrCreateCountMeter(name string) CountMeter
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateGaugeVecMeter(name string, labels []string) GaugeVecMeter
	GetOrCreateHistogramVecMeter(name string, labels []string, buckets []int64) HistogramVecMeter
	GetOrCreateHandler() http.Handler
}

// HTTPHandler serves the collected metrics. It is nil while metrics are disabled.
func HTTPHandler() http.Handler {
	return current().GetOrCreateHandler()
}

// Buckets in milliseconds.
var (
	BucketExecution = []int64{0, 1, 2, 5, 10, 20, 50, 100, 250, 500, 1000}
	BucketHTTPReqs  = []int64{
		0, 1, 2, 5, 10, 20, 30, 50, 75, 100,
		150, 200, 300, 400, 500, 750, 1000,
		1500, 2000, 3000, 5000, 10000,
	}
)

// CountMeter only goes up.
type CountMeter interface {
	Add(int64)
}

func Counter(name string) CountMeter { return current().GetOrCreateCountMeter(name) }

// CountVecMeter is a CountMeter split by labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

func CounterVec(name string, labels []string) CountVecMeter {
	return current().GetOrCreateCountVecMeter(name, labels)
}

// GaugeMeter holds a value that can go up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

func Gauge(name string) GaugeMeter { return current().GetOrCreateGaugeMeter(name) }

// GaugeVecMeter is a GaugeMeter split by labels.
type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

func GaugeVec(name string, labels []string) GaugeVecMeter {
	return current().GetOrCreateGaugeVecMeter(name, labels)
}

// HistogramVecMeter aggregates labelled observations into buckets.
type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return current().GetOrCreateHistogramVecMeter(name, labels, buckets)
}

// LazyLoad defers creating a meter until first use, so meters can be declared
// as package vars before the backend is chosen.
func LazyLoad[T any](f func() T) func() T {
	var (
		result T
		once   sync.Once
	)
	return func() T {
		once.Do(func() {
			result = f()
		})
		return result
	}
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return LazyLoad(func() GaugeVecMeter { return GaugeVec(name, labels) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return LazyLoad(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}
