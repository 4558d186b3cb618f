package health

import (
	"context"
	"time"

	"github.com/taoyao-code/msp-server/internal/flash"
)

// FlashChecker 数据闪存：擦除中降级，写满降级
type FlashChecker struct {
	chip *flash.Chip
}

// NewFlashChecker 创建
func NewFlashChecker(chip *flash.Chip) *FlashChecker { return &FlashChecker{chip: chip} }

func (c *FlashChecker) Name() string { return "flash" }

func (c *FlashChecker) Check(context.Context) CheckResult {
	start := time.Now()
	sum := c.chip.Summary()
	status, msg := StatusHealthy, "ok"
	switch {
	case !sum.Ready:
		status, msg = StatusDegraded, "erase in progress"
	case sum.UsedSize >= sum.TotalSize:
		status, msg = StatusDegraded, "flash full"
	}
	return CheckResult{
		Status:  status,
		Message: msg,
		Details: map[string]any{
			"sectors":    sum.Sectors,
			"total_size": sum.TotalSize,
			"used_size":  sum.UsedSize,
		},
		Latency: time.Since(start),
	}
}
