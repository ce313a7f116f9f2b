// Package metrics — сбор метрик работы солверов.
package metrics

// Collector принимает события поиска. Метка algo — имя солвера (hs, ga, ...).
type Collector interface {
	// RecordEvaluation учитывает одно вычисление целевой функции.
	RecordEvaluation(algo string, feasible bool)
	// RecordReplacement учитывает замену худшего члена памяти/популяции.
	RecordReplacement(algo string)
	// RecordBest публикует текущее лучшее значение.
	RecordBest(algo string, score float64)
	// RecordRun учитывает завершённый запуск и его длительность в секундах.
	RecordRun(algo string, seconds float64)
}

// NopMetrics отбрасывает все метрики.
type NopMetrics struct{}

var _ Collector = (*NopMetrics)(nil)

func NewNop() *NopMetrics { return &NopMetrics{} }

func (n *NopMetrics) RecordEvaluation(_ string, _ bool) {}
func (n *NopMetrics) RecordReplacement(_ string)        {}
func (n *NopMetrics) RecordBest(_ string, _ float64)    {}
func (n *NopMetrics) RecordRun(_ string, _ float64)     {}
