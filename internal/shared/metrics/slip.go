package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SlipMetrics agrupa os contadores de parse de bilhetes de um processo
type SlipMetrics struct {
	SlipsParsed   prometheus.Counter
	LegsByMarket  *prometheus.CounterVec
	EmptySlips    prometheus.Counter
	ErrorsByStage *prometheus.CounterVec
	ParseSeconds  prometheus.Histogram
	Requests      *prometheus.CounterVec // só a API HTTP incrementa
}

// NewSlipMetrics cria e registra as métricas com o prefixo do processo (ex: "slip_worker")
func NewSlipMetrics(reg prometheus.Registerer, prefix string) *SlipMetrics {
	m := &SlipMetrics{
		SlipsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_slips_parsed_total",
			Help: "bilhetes interpretados",
		}),
		LegsByMarket: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_legs_total",
			Help: "pernas extraídas por mercado",
		}, []string{"market"}),
		EmptySlips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_empty_slips_total",
			Help: "bilhetes sem nenhuma perna reconhecida",
		}),
		ErrorsByStage: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_errors_total",
			Help: "erros por estágio",
		}, []string{"stage"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_requests_total",
			Help: "requisições de parse por resultado",
		}, []string{"outcome"}),
		ParseSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    prefix + "_parse_seconds",
			Help:    "tempo de parse por bilhete",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05},
		}),
	}
	reg.MustRegister(m.SlipsParsed, m.LegsByMarket, m.EmptySlips, m.ErrorsByStage, m.ParseSeconds, m.Requests)
	return m
}

// ObserveLegs conta um bilhete interpretado e suas pernas por mercado
func (m *SlipMetrics) ObserveLegs(markets []string) {
	m.SlipsParsed.Inc()
	if len(markets) == 0 {
		m.EmptySlips.Inc()
		return
	}
	for _, mk := range markets {
		m.LegsByMarket.WithLabelValues(mk).Inc()
	}
}
