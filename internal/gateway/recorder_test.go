package gateway

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/taoyao-code/msp-server/internal/metrics"
	"github.com/taoyao-code/msp-server/internal/protocol/msp"
	"github.com/taoyao-code/msp-server/internal/storage/models"
)

type failingLog struct{ calls atomic.Int32 }

func (f *failingLog) InsertCommandLog(context.Context, *models.CommandLog) error {
	f.calls.Add(1)
	return errors.New("db down")
}

func TestRecorderBreaker(t *testing.T) {
	m := metrics.NewAppMetrics(metrics.NewRegistry())
	w := &failingLog{}
	r := NewRecorder(w, 32, time.Second, nil, m)
	for i := 0; i < 8; i++ {
		r.Record(CommandRecord{Cmd: msp.CmdSetName, Result: msp.ResultAck})
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Run(ctx)

	assert.Equal(t, int32(5), w.calls.Load(), "熔断后不再访问数据库")
	assert.Equal(t, 8.0, testutil.ToFloat64(m.AuditFailuresTotal))
}

func TestRecorderQueueFull(t *testing.T) {
	r := NewRecorder(&fakeLog{}, 1, time.Second, nil, nil)
	r.Record(CommandRecord{Cmd: msp.CmdSetName})
	r.Record(CommandRecord{Cmd: msp.CmdSetName})
	assert.Len(t, r.ch, 1)
}
