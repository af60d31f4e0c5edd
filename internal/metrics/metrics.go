// Package metrics exposes tracker statistics to Prometheus. Values are
// derived on scrape from the tracker's accessors rather than pushed, so a
// collector adds no work to the ingestion path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/HerbHall/perfpulse/internal/perf"
)

// Compile-time interface guard.
var _ prometheus.Collector = (*TrackerCollector)(nil)

// TrackerCollector publishes one tracker's derived statistics as gauges,
// labelled with the tracker name.
type TrackerCollector struct {
	tracker *perf.Tracker

	rateAvg     *prometheus.Desc
	valueAvg    *prometheus.Desc
	valueStdDev *prometheus.Desc
	lastValue   *prometheus.Desc
	samples     *prometheus.Desc
}

// NewTrackerCollector creates a collector for tr. Register it with a
// prometheus registry; each scrape reads the tracker under its shared lock
// (the standard deviation accessor takes the exclusive lock to fill its
// cache).
func NewTrackerCollector(tr *perf.Tracker) *TrackerCollector {
	labels := prometheus.Labels{"tracker": tr.Name()}
	return &TrackerCollector{
		tracker: tr,
		rateAvg: prometheus.NewDesc(
			"perfpulse_rate_avg_hz",
			"Exponentially smoothed sample rate in events per second.",
			nil, labels,
		),
		valueAvg: prometheus.NewDesc(
			"perfpulse_value_avg_seconds",
			"Simple moving average of sample values over the window.",
			nil, labels,
		),
		valueStdDev: prometheus.NewDesc(
			"perfpulse_value_stddev_seconds",
			"Weighted standard deviation of sample values over the window.",
			nil, labels,
		),
		lastValue: prometheus.NewDesc(
			"perfpulse_value_last_seconds",
			"Most recently ingested sample value.",
			nil, labels,
		),
		samples: prometheus.NewDesc(
			"perfpulse_window_samples",
			"Number of samples currently retained in the window.",
			nil, labels,
		),
	}
}

func (c *TrackerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.rateAvg
	ch <- c.valueAvg
	ch <- c.valueStdDev
	ch <- c.lastValue
	ch <- c.samples
}

func (c *TrackerCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.rateAvg, prometheus.GaugeValue, c.tracker.RateAvg())
	ch <- prometheus.MustNewConstMetric(c.valueAvg, prometheus.GaugeValue, c.tracker.ValueAvg().Seconds())
	ch <- prometheus.MustNewConstMetric(c.valueStdDev, prometheus.GaugeValue, c.tracker.ValueStdDev().Seconds())
	ch <- prometheus.MustNewConstMetric(c.lastValue, prometheus.GaugeValue, c.tracker.LastRawValue().Seconds())
	ch <- prometheus.MustNewConstMetric(c.samples, prometheus.GaugeValue, float64(c.tracker.Samples()))
}
