// Copyright 2023 Intel Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mem

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Stats are counters a reader has accumulated. Readers that count
// nothing for a field leave it zero.
type Stats struct {
	CacheHits      uint64
	CacheMisses    uint64
	CacheFillFails uint64
	VMReadCalls    uint64
	VMReadBytes    uint64
	PtraceCalls    uint64
}

// StatsSource is implemented by the readers that keep counters:
// SharedPageCache, ThreadPageCache and RemoteReader.
type StatsSource interface {
	Stats() Stats
}

type statsCollector struct {
	source         StatsSource
	cacheHits      *prometheus.Desc
	cacheMisses    *prometheus.Desc
	cacheFillFails *prometheus.Desc
	vmReadCalls    *prometheus.Desc
	vmReadBytes    *prometheus.Desc
	ptraceCalls    *prometheus.Desc
}

// NewStatsCollector returns a prometheus collector exporting the
// counters of source, labeled with the given reader name.
func NewStatsCollector(name string, source StatsSource) prometheus.Collector {
	labels := prometheus.Labels{"reader": name}
	return &statsCollector{
		source: source,
		cacheHits: prometheus.NewDesc("unwind_memory_cache_hits_total",
			"Cache page lookups served from a cached page.", nil, labels),
		cacheMisses: prometheus.NewDesc("unwind_memory_cache_misses_total",
			"Cache page lookups that had to fill the page.", nil, labels),
		cacheFillFails: prometheus.NewDesc("unwind_memory_cache_fill_failures_total",
			"Cache page fills that failed and fell through uncached.", nil, labels),
		vmReadCalls: prometheus.NewDesc("unwind_memory_vm_read_calls_total",
			"process_vm_readv system calls issued.", nil, labels),
		vmReadBytes: prometheus.NewDesc("unwind_memory_vm_read_bytes_total",
			"Bytes transferred by process_vm_readv.", nil, labels),
		ptraceCalls: prometheus.NewDesc("unwind_memory_ptrace_reads_total",
			"ptrace peek reads issued.", nil, labels),
	}
}

func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.cacheHits
	ch <- c.cacheMisses
	ch <- c.cacheFillFails
	ch <- c.vmReadCalls
	ch <- c.vmReadBytes
	ch <- c.ptraceCalls
}

func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.cacheHits, prometheus.CounterValue, float64(s.CacheHits))
	ch <- prometheus.MustNewConstMetric(c.cacheMisses, prometheus.CounterValue, float64(s.CacheMisses))
	ch <- prometheus.MustNewConstMetric(c.cacheFillFails, prometheus.CounterValue, float64(s.CacheFillFails))
	ch <- prometheus.MustNewConstMetric(c.vmReadCalls, prometheus.CounterValue, float64(s.VMReadCalls))
	ch <- prometheus.MustNewConstMetric(c.vmReadBytes, prometheus.CounterValue, float64(s.VMReadBytes))
	ch <- prometheus.MustNewConstMetric(c.ptraceCalls, prometheus.CounterValue, float64(s.PtraceCalls))
}
