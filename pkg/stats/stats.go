package stats

import (
	"bufio"
	"context"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
	TERABYTE
)

var (
	chainRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seedelf",
			Name:      "chain_requests_total",
			Help:      "Requests sent to chain services, by service, endpoint and outcome.",
		},
		[]string{"service", "endpoint", "outcome"},
	)
	chainLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "seedelf",
			Name:      "chain_request_duration_seconds",
			Help:      "Latency of requests sent to chain services.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
)

func init() {
	prometheus.MustRegister(chainRequests, chainLatency)
}

// ObserveRequest records the outcome and latency of a request to a chain
// service.
func ObserveRequest(service, endpoint string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	chainRequests.WithLabelValues(service, endpoint, outcome).Inc()
	chainLatency.WithLabelValues(service, endpoint).Observe(time.Since(start).Seconds())
}

// EnableMemoryStatistics enables go routine that periodically prints memory
// usage of the go process. When ctx is done the gathered metrics are dumped
// to dumpPath, if not empty.
func EnableMemoryStatistics(ctx context.Context, interval time.Duration, dumpPath string) {

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				PrintMemoryStatistics()
				PrintNumOfRoutines()
			case <-ctx.Done():
				if dumpPath == "" {
					return
				}
				if err := DumpPrometheusDefaults(dumpPath); err != nil {
					log.WithError(err).Warn("failed to dump statistics")
				}
				return
			}
		}
	}()
}

// toGigabytes returns given memory in bytes to gigabytes.
func toGigabytes(bytes uint64) float64 {
	return float64(bytes) / GIGABYTE
}

// PrintMemoryStatistics prints memory statistics using go runtime library.
func PrintMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Debugf(
		"Total allocated: %.3fGB, Heap allocated: %.3fGB, "+
			"Allocated objects count: %v, Freed objects count: %v",
		toGigabytes(memStats.TotalAlloc),
		toGigabytes(memStats.HeapAlloc),
		memStats.Mallocs,
		memStats.Frees,
	)
}

// DumpPrometheusDefaults appends the gathered Prometheus metrics to a file
func DumpPrometheusDefaults(path string) error {
	file, err := os.OpenFile(
		path,
		os.O_APPEND|os.O_CREATE|os.O_RDWR,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()
	writer := bufio.NewWriter(file)

	metricFamily, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, v := range metricFamily {
		if _, err := writer.WriteString(v.String() + "\n"); err != nil {
			return err
		}
	}

	return writer.Flush()
}

// PrintNumOfRoutines prints number of go routines currently running
func PrintNumOfRoutines() {
	log.Debugf("Num of go routines: %v", runtime.NumGoroutine())
}
