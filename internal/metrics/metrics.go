package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taoyao-code/msp-server/internal/protocol/msp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics 自定义业务指标，同时实现 msp.Observer
type AppMetrics struct {
	TCPAccepted      prometheus.Counter
	TCPRejected      *prometheus.CounterVec // labels: reason=limit|rate
	TCPBytesReceived prometheus.Counter

	RequestsTotal      *prometheus.CounterVec   // labels: cmd, result
	RequestDuration    *prometheus.HistogramVec // labels: cmd
	ActionsTotal       *prometheus.CounterVec   // labels: kind
	DataflashBytes     *prometheus.CounterVec   // labels: method=none|huffman
	BatchSubcommands   prometheus.Counter
	FrameErrorsTotal   *prometheus.CounterVec // labels: reason
	SessionsActive     *prometheus.GaugeVec   // labels: transport
	SessionsTotal      *prometheus.CounterVec // labels: transport
	AuditFailuresTotal prometheus.Counter
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg *prometheus.Registry) *AppMetrics {
	m := &AppMetrics{
		TCPAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tcp_accept_total",
			Help: "Total accepted TCP connections.",
		}),
		TCPRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tcp_reject_total",
			Help: "TCP connections rejected by the limiters.",
		}, []string{"reason"}),
		TCPBytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tcp_bytes_received_total",
			Help: "Total bytes received over TCP.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "msp_requests_total",
			Help: "MSP commands processed by command and result.",
		}, []string{"cmd", "result"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "msp_request_duration_seconds",
			Help:    "MSP command processing latency.",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"cmd"}),
		ActionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "msp_actions_total",
			Help: "Post-process actions executed by kind.",
		}, []string{"kind"}),
		DataflashBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "msp_dataflash_bytes_total",
			Help: "Dataflash bytes served by compression method.",
		}, []string{"method"}),
		BatchSubcommands: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "msp_batch_subcommands_total",
			Help: "Sub-commands answered inside MULTIPLE_MSP replies.",
		}),
		FrameErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "msp_frame_errors_total",
			Help: "Dropped MSP frames by reason.",
		}, []string{"reason"}),
		SessionsActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "msp_sessions_active",
			Help: "Live MSP sessions by transport.",
		}, []string{"transport"}),
		SessionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "msp_sessions_total",
			Help: "MSP sessions opened by transport.",
		}, []string{"transport"}),
		AuditFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "msp_audit_failures_total",
			Help: "Command audit rows that could not be written.",
		}),
	}
	reg.MustRegister(
		m.TCPAccepted, m.TCPRejected, m.TCPBytesReceived,
		m.RequestsTotal, m.RequestDuration, m.ActionsTotal, m.DataflashBytes,
		m.BatchSubcommands, m.FrameErrorsTotal, m.SessionsActive, m.SessionsTotal,
		m.AuditFailuresTotal,
	)
	return m
}

// ObserveCommand 记录一次命令处理
func (m *AppMetrics) ObserveCommand(cmd uint8, r msp.Result, d time.Duration) {
	name := msp.CommandName(cmd)
	m.RequestsTotal.WithLabelValues(name, r.String()).Inc()
	m.RequestDuration.WithLabelValues(name).Observe(d.Seconds())
}

// ObserveAction 记录一次后置动作
func (m *AppMetrics) ObserveAction(kind msp.ActionKind) {
	m.ActionsTotal.WithLabelValues(kind.String()).Inc()
}

// ObserveDataflash 记录数据闪存读取字节数
func (m *AppMetrics) ObserveDataflash(method uint8, bytes int) {
	label := "none"
	if method == 1 {
		label = "huffman"
	} else if method != 0 {
		label = strconv.Itoa(int(method))
	}
	m.DataflashBytes.WithLabelValues(label).Add(float64(bytes))
}

// ObserveBatch 记录批量命令的子应答数
func (m *AppMetrics) ObserveBatch(subCommands int) {
	m.BatchSubcommands.Add(float64(subCommands))
}

var _ msp.Observer = (*AppMetrics)(nil)
