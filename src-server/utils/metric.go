package utils

type Metric struct {
	DatabaseRead  chan float64
	DatabaseWrite chan float64
	HTTPRequest   chan float64
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:  make(chan float64),
		DatabaseWrite: make(chan float64),
		HTTPRequest:   make(chan float64),
	}
}

// ReportHTTPRequest hands a request latency sample to the metric collector.
// Samples are dropped when nothing is draining the channel, so handlers
// never block on metrics.
func (m *Metric) ReportHTTPRequest(latencyMicrosec float64) {
	select {
	case m.HTTPRequest <- latencyMicrosec:
	default:
	}
}

// ReportDatabaseWrite works like ReportHTTPRequest for write latencies.
func (m *Metric) ReportDatabaseWrite(latencyMicrosec float64) {
	select {
	case m.DatabaseWrite <- latencyMicrosec:
	default:
	}
}

// ReportDatabaseRead works like ReportHTTPRequest for read latencies.
func (m *Metric) ReportDatabaseRead(latencyMicrosec float64) {
	select {
	case m.DatabaseRead <- latencyMicrosec:
	default:
	}
}
