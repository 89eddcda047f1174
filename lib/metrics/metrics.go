package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trianglix_frames_rendered_total",
		Help: "Total number of frames rendered",
	})
	DrawCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trianglix_draw_calls_total",
		Help: "Total number of draw calls issued, by primitive mode",
	}, []string{"mode"})
	VerticesDrawn = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trianglix_vertices_drawn_total",
		Help: "Total number of vertices submitted in draw calls",
	})
	BytesUploaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trianglix_bytes_uploaded_total",
		Help: "Total number of bytes uploaded to the GPU, by resource kind",
	}, []string{"kind"})
	FrameInterval = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trianglix_frame_interval_seconds",
		Help:    "Time between consecutive rendered frames",
		Buckets: []float64{1.0 / 240, 1.0 / 120, 1.0 / 60, 1.0 / 30, 1.0 / 15, 0.25, 1},
	})
)

const (
	KindVertexBuffer = "vertex_buffer"
	KindTexture      = "texture"
)

// Handler should usually be mounted at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
