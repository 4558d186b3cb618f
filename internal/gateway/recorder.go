package gateway

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/msp-server/internal/metrics"
	"github.com/taoyao-code/msp-server/internal/protocol/msp"
	"github.com/taoyao-code/msp-server/internal/storage/models"
)

// CommandRecord 一条修改类命令的审计记录
type CommandRecord struct {
	SessionID string
	Transport string
	Cmd       uint8
	Result    msp.Result
	Request   []byte
	ReplyLen  int
	Duration  time.Duration
}

// CommandLogWriter 审计落库（pg.Repository 实现）
type CommandLogWriter interface {
	InsertCommandLog(ctx context.Context, l *models.CommandLog) error
}

// Recorder 异步审计：会话侧只入队，写库在 Run 中完成；队列满或熔断时丢弃
type Recorder struct {
	w       CommandLogWriter
	breaker *Breaker
	ch      chan CommandRecord
	timeout time.Duration
	logger  *zap.Logger
	metrics *metrics.AppMetrics
}

// NewRecorder 创建审计器
func NewRecorder(w CommandLogWriter, queue int, timeout time.Duration, logger *zap.Logger, m *metrics.AppMetrics) *Recorder {
	if queue <= 0 {
		queue = 256
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{w: w, breaker: NewBreaker(5, 30*time.Second), ch: make(chan CommandRecord, queue), timeout: timeout, logger: logger, metrics: m}
}

// Record 入队，不阻塞
func (r *Recorder) Record(rec CommandRecord) {
	select {
	case r.ch <- rec:
	default:
		r.fail()
		r.logger.Warn("audit queue full, record dropped", zap.String("cmd", msp.CommandName(rec.Cmd)))
	}
}

// Run 消费队列直到 ctx 取消，取消时写完已入队的记录
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case rec := <-r.ch:
			r.write(rec)
		case <-ctx.Done():
			for {
				select {
				case rec := <-r.ch:
					r.write(rec)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(rec CommandRecord) {
	row := &models.CommandLog{
		SessionID:  rec.SessionID,
		Transport:  rec.Transport,
		Cmd:        int32(rec.Cmd),
		CmdName:    msp.CommandName(rec.Cmd),
		Result:     int16(rec.Result),
		Request:    rec.Request,
		ReplyLen:   int32(rec.ReplyLen),
		DurationUs: int32(rec.Duration.Microseconds()),
	}
	err := r.breaker.Call(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		return r.w.InsertCommandLog(ctx, row)
	})
	if errors.Is(err, ErrBreakerOpen) {
		r.fail()
		return
	}
	if err != nil {
		r.fail()
		r.logger.Warn("write audit record", zap.Error(err))
	}
}

func (r *Recorder) fail() {
	if r.metrics != nil {
		r.metrics.AuditFailuresTotal.Inc()
	}
}
