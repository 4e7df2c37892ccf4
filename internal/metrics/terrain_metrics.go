package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Метрики движка согласования высот.
//
// * terrain_height_requests_total{status} — counter запросов по исходу
// * terrain_cascade_size — histogram количества ячеек в каскаде
// * terrain_cascade_duration_seconds — histogram длительности каскада

var (
	heightRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "terrain",
		Name:      "height_requests_total",
		Help:      "Число запросов изменения высоты по исходам.",
	}, []string{"status"})

	cascadeSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "terrain",
		Name:      "cascade_size",
		Help:      "Количество ячеек, изменённых одним каскадом.",
		Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
	})

	cascadeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "terrain",
		Name:      "cascade_duration_seconds",
		Help:      "Длительность обработки одного запроса изменения высоты.",
		Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	})
)

func init() {
	prometheus.MustRegister(heightRequests, cascadeSize, cascadeDuration)
}

// CountHeightRequest учитывает исход запроса изменения высоты.
// Для успешных запросов size — число изменённых ячеек.
func CountHeightRequest(status string, size int) {
	heightRequests.WithLabelValues(status).Inc()
	if status == "ok" {
		cascadeSize.Observe(float64(size))
	}
}

// ObserveCascadeDuration учитывает длительность успешного каскада
func ObserveCascadeDuration(d time.Duration) {
	cascadeDuration.Observe(d.Seconds())
}
