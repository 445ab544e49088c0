// Package metrics 提供 Prometheus 指标定义与注册
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 合约生命周期迁移次数（close/expire）
	ContractTransitions *prometheus.CounterVec
	// 估值计算次数
	ValuationsTotal prometheus.Counter
	// 活跃合约数
	ContractsActive prometheus.Gauge
	// Outbox 投递结果
	OutboxDelivered *prometheus.CounterVec
}

// New 创建指标实例并注册到独立的 Registry
func New(serviceName string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "options",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "options",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ContractTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "options",
			Subsystem: serviceName,
			Name:      "contracts_transitions_total",
			Help:      "Contract lifecycle transitions by target status",
		}, []string{"status"}),
		ValuationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "options",
			Subsystem: serviceName,
			Name:      "valuations_total",
			Help:      "Total contract valuations served",
		}),
		ContractsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "options",
			Subsystem: serviceName,
			Name:      "contracts_active",
			Help:      "Number of active contracts seen by the last list query",
		}),
		OutboxDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "options",
			Subsystem: serviceName,
			Name:      "outbox_messages_total",
			Help:      "Outbox messages processed by result",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ContractTransitions,
		m.ValuationsTotal,
		m.ContractsActive,
		m.OutboxDelivered,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler 返回 Prometheus 抓取端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// 以下记录方法允许 nil 接收者，未启用指标时调用方无需判空

// RecordHTTPRequest 记录 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordTransition 记录合约生命周期迁移
func (m *Metrics) RecordTransition(status string) {
	if m == nil {
		return
	}
	m.ContractTransitions.WithLabelValues(status).Inc()
}

// RecordValuation 记录一次估值
func (m *Metrics) RecordValuation() {
	if m == nil {
		return
	}
	m.ValuationsTotal.Inc()
}

// SetActiveContracts 更新活跃合约数
func (m *Metrics) SetActiveContracts(count int) {
	if m == nil {
		return
	}
	m.ContractsActive.Set(float64(count))
}

// RecordOutbox 记录 outbox 投递结果
func (m *Metrics) RecordOutbox(result string, n int) {
	if m == nil {
		return
	}
	m.OutboxDelivered.WithLabelValues(result).Add(float64(n))
}
