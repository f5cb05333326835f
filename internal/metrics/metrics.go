// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hitoshi/fxfav/internal/model"
)

// 操作結果ラベル
const (
	ResultOK          = "ok"
	ResultDuplicate   = "duplicate"
	ResultUnknownUser = "unknown_user"
	ResultUnavailable = "unavailable"
	ResultError       = "error"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層・ワーカー・ミドルウェアから利用する。
type MetricsCollector interface {
	RecordStoreOperation(op string, err error, duration time.Duration)
	RecordUserRegistered()
	RecordHTTPStatus(statusCode int)
	SetTotals(totals model.Totals)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	storeOps        *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec
	usersRegistered prometheus.Counter
	httpStatus      *prometheus.CounterVec
	httpPanics      prometheus.Counter
	usersTotal      prometheus.Gauge
	favoritesTotal  prometheus.Gauge
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxfav_store_operations_total",
			Help: "ストア操作の合計数（操作・結果別）",
		}, []string{"op", "result"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fxfav_store_operation_seconds",
			Help:    "ストア操作のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fxfav_users_registered_total",
			Help: "新規登録されたユーザーの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxfav_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		httpPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fxfav_http_panics_total",
			Help: "ハンドラーで捕捉したpanicの合計数",
		}),
		usersTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fxfav_users",
			Help: "登録ユーザー数",
		}),
		favoritesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fxfav_favorites",
			Help: "保存されているお気に入りペア数",
		}),
	}

	reg.MustRegister(
		c.storeOps,
		c.storeLatency,
		c.usersRegistered,
		c.httpStatus,
		c.httpPanics,
		c.usersTotal,
		c.favoritesTotal,
	)

	return c
}

// ResultLabel はエラーを操作結果ラベルに分類する。
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case model.IsCode(err, model.ErrCodeDuplicatePair):
		return ResultDuplicate
	case model.IsCode(err, model.ErrCodeUnknownUser):
		return ResultUnknownUser
	case model.IsCode(err, model.ErrCodeStoreUnavailable):
		return ResultUnavailable
	default:
		return ResultError
	}
}

// RecordStoreOperation はストア操作の結果とレイテンシを記録する。
func (c *Collector) RecordStoreOperation(op string, err error, duration time.Duration) {
	c.storeOps.WithLabelValues(op, ResultLabel(err)).Inc()
	c.storeLatency.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordUserRegistered は新規ユーザー登録を記録する。
func (c *Collector) RecordUserRegistered() {
	c.usersRegistered.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// SetTotals はユーザー数・お気に入り数のゲージを更新する。
func (c *Collector) SetTotals(totals model.Totals) {
	c.usersTotal.Set(float64(totals.Users))
	c.favoritesTotal.Set(float64(totals.Favorites))
}

// RecordPanic はハンドラーのpanic発生を記録する。
func (c *Collector) RecordPanic() {
	c.httpPanics.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
// エンコードに失敗した場合も取得できた分は返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorHandling:     promhttp.ContinueOnError,
		EnableOpenMetrics: true,
	})
}

// Nop は何も記録しないMetricsCollector。テストやメトリクス無効時に使う。
type Nop struct{}

func (Nop) RecordStoreOperation(string, error, time.Duration) {}
func (Nop) RecordUserRegistered()                             {}
func (Nop) RecordHTTPStatus(int)                              {}
func (Nop) SetTotals(model.Totals)                            {}
func (Nop) RecordPanic()                                      {}
