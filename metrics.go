package genosnp

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Skip reasons used as metric labels.
const (
	ReasonRepeatRegion = "repeat_region"
	ReasonMultiallelic = "multiallelic"
	ReasonConflict     = "conflict"
	ReasonNoAlt        = "no_alt"
	ReasonFiltered     = "filtered"
)

// Output kinds used as metric labels.
const (
	OutputGenotype = "genotype"
	OutputSpecies  = "species"
)

// Metrics counts what ingestion and VCF encoding did. A nil *Metrics is valid
// and counts nothing.
type Metrics struct {
	VariantsIngested   prometheus.Counter
	RowsSkipped        *prometheus.CounterVec
	CoordinatesSkipped *prometheus.CounterVec
	RecordsWritten     *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		VariantsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "genosnp",
			Name:      "variants_ingested_total",
			Help:      "Variants read from VCF rows and offered to a sample.",
		}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genosnp",
			Name:      "vcf_rows_skipped_total",
			Help:      "VCF rows skipped during ingestion, by reason.",
		}, []string{"reason"}),
		CoordinatesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genosnp",
			Name:      "coordinates_skipped_total",
			Help:      "Coordinates left out of VCF output, by output and reason.",
		}, []string{"output", "reason"}),
		RecordsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genosnp",
			Name:      "vcf_records_written_total",
			Help:      "VCF data lines written, by output.",
		}, []string{"output"}),
	}

	if reg != nil {
		reg.MustRegister(m.VariantsIngested, m.RowsSkipped, m.CoordinatesSkipped, m.RecordsWritten)
	}

	return m
}

func (m *Metrics) variantsIngested(n int) {
	if m == nil {
		return
	}
	m.VariantsIngested.Add(float64(n))
}

func (m *Metrics) rowsSkipped(reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.RowsSkipped.WithLabelValues(reason).Add(float64(n))
}

func (m *Metrics) coordinateSkipped(output, reason string) {
	if m == nil {
		return
	}
	m.CoordinatesSkipped.WithLabelValues(output, reason).Inc()
}

func (m *Metrics) recordWritten(output string) {
	if m == nil {
		return
	}
	m.RecordsWritten.WithLabelValues(output).Inc()
}
