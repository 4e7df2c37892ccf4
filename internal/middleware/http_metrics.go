package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics регистрирует базовые метрики отладочного REST API.
//
// Метрики:
// * terrain_api_request_duration_seconds{method,path,status} — histogram
// * terrain_api_requests_inflight — gauge

type HTTPMetrics struct {
	reqDuration *prometheus.HistogramVec
	reqInflight prometheus.Gauge
}

// NewHTTPMetrics создаёт middleware и регистрирует метрики в дефолтном регистре
func NewHTTPMetrics() *HTTPMetrics {
	hm := &HTTPMetrics{
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "terrain_api",
			Name:      "request_duration_seconds",
			Help:      "Длительность HTTP-запросов отладочного API.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "path", "status"}),
		reqInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "terrain_api",
			Name:      "requests_inflight",
			Help:      "Текущее количество обрабатываемых HTTP-запросов.",
		}),
	}

	prometheus.MustRegister(hm.reqDuration, hm.reqInflight)
	return hm
}

// Handler возвращает gin.HandlerFunc, которую нужно добавить через router.Use()
func (hm *HTTPMetrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		hm.reqInflight.Inc()
		c.Next()
		hm.reqInflight.Dec()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path // для не-матченных маршрутов
		}
		hm.reqDuration.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
