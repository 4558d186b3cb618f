// Package flash 黑匣子数据闪存芯片（基于 tinyfs 块设备）
package flash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"tinygo.org/x/tinyfs"

	"github.com/taoyao-code/msp-server/internal/fc"
)

var (
	// ErrFull 闪存已写满
	ErrFull = errors.New("flash: full")
	// ErrNotReady 正在擦除
	ErrNotReady = errors.New("flash: not ready")
)

const imageTimeout = 3 * time.Second

// ImageStore 闪存镜像持久化（可选）
type ImageStore interface {
	LoadImage(ctx context.Context) (data []byte, err error)
	AppendImage(ctx context.Context, offset uint32, data []byte) error
	ClearImage(ctx context.Context) error
}

// Geometry 芯片几何
type Geometry struct {
	PageSize   int
	SectorSize int
	Sectors    int
}

// DefaultGeometry 2MB
var DefaultGeometry = Geometry{PageSize: 256, SectorSize: 64 * 1024, Sectors: 32}

// Chip 实现 fc.Flash，日志只追加写入，擦除整片
type Chip struct {
	mu     sync.Mutex
	dev    tinyfs.BlockDevice
	geom   Geometry
	offset uint32
	busy   bool
	image  ImageStore
	logger *zap.Logger
}

// Option 芯片选项
type Option func(*Chip)

// WithImageStore 持久化镜像
func WithImageStore(s ImageStore) Option { return func(c *Chip) { c.image = s } }

// WithLogger 设置日志
func WithLogger(l *zap.Logger) Option {
	return func(c *Chip) {
		if l != nil {
			c.logger = l
		}
	}
}

// New 创建内存块设备上的芯片
func New(g Geometry, opts ...Option) (*Chip, error) {
	if g.PageSize <= 0 || g.SectorSize <= 0 || g.Sectors <= 0 || g.SectorSize%g.PageSize != 0 {
		return nil, fmt.Errorf("flash: invalid geometry %+v", g)
	}
	c := &Chip{
		dev:    tinyfs.NewMemoryDevice(g.PageSize, g.SectorSize, g.Sectors),
		geom:   g,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	if err := c.dev.EraseBlocks(0, int64(g.Sectors)); err != nil {
		return nil, fmt.Errorf("flash: erase: %w", err)
	}
	return c, nil
}

func (c *Chip) size() uint32 { return uint32(c.geom.SectorSize * c.geom.Sectors) }

// Supported 恒为 true
func (c *Chip) Supported() bool { return true }

// Ready 未在擦除
func (c *Chip) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.busy
}

// Geometry 几何信息
func (c *Chip) Geometry() fc.FlashGeometry {
	return fc.FlashGeometry{
		Sectors:    uint32(c.geom.Sectors),
		TotalSize:  c.size(),
		PageSize:   uint32(c.geom.PageSize),
		SectorSize: uint32(c.geom.SectorSize),
	}
}

// Offset 已写入末尾
func (c *Chip) Offset() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// Summary 芯片状态快照
type Summary struct {
	Ready      bool   `json:"ready"`
	Sectors    uint32 `json:"sectors"`
	SectorSize uint32 `json:"sector_size"`
	TotalSize  uint32 `json:"total_size"`
	UsedSize   uint32 `json:"used_size"`
}

// Summary 返回状态快照
func (c *Chip) Summary() Summary {
	g := c.Geometry()
	c.mu.Lock()
	defer c.mu.Unlock()
	return Summary{Ready: !c.busy, Sectors: g.Sectors, SectorSize: g.SectorSize, TotalSize: g.TotalSize, UsedSize: c.offset}
}

// ReadAt 读取 [addr, addr+len(p)) 中位于芯片范围内的部分
func (c *Chip) ReadAt(p []byte, addr uint32) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	size := c.size()
	if addr >= size || len(p) == 0 {
		return 0
	}
	if rest := size - addr; uint32(len(p)) > rest {
		p = p[:rest]
	}
	n, err := c.dev.ReadAt(p, int64(addr))
	if err != nil {
		c.logger.Warn("flash read failed", zap.Uint32("addr", addr), zap.Error(err))
	}
	return n
}

// EraseAll 整片擦除并清空持久化镜像
func (c *Chip) EraseAll() error {
	c.mu.Lock()
	c.busy = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	if err := c.dev.EraseBlocks(0, int64(c.geom.Sectors)); err != nil {
		return fmt.Errorf("flash: erase: %w", err)
	}
	c.mu.Lock()
	c.offset = 0
	c.mu.Unlock()
	if c.image != nil {
		ctx, cancel := context.WithTimeout(context.Background(), imageTimeout)
		defer cancel()
		if err := c.image.ClearImage(ctx); err != nil {
			return fmt.Errorf("flash: clear image: %w", err)
		}
	}
	c.logger.Info("flash erased")
	return nil
}

// Append 追加日志数据，空间不足时写入能容纳的部分并返回 ErrFull
func (c *Chip) Append(ctx context.Context, data []byte) (int, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return 0, ErrNotReady
	}
	at := c.offset
	room := c.size() - at
	var full bool
	if uint32(len(data)) > room {
		data = data[:room]
		full = true
	}
	n, err := c.dev.WriteAt(data, int64(at))
	c.offset += uint32(n)
	c.mu.Unlock()
	if err != nil {
		return n, fmt.Errorf("flash: write: %w", err)
	}

	if c.image != nil && n > 0 {
		if err := c.image.AppendImage(ctx, at, data[:n]); err != nil {
			return n, fmt.Errorf("flash: persist image: %w", err)
		}
	}
	if full {
		return n, ErrFull
	}
	return n, nil
}

// Seed 从 r 追加日志直到结束或写满
func (c *Chip) Seed(ctx context.Context, r io.Reader) (int, error) {
	buf := make([]byte, c.geom.PageSize)
	total := 0
	for {
		k, err := r.Read(buf)
		if k > 0 {
			n, werr := c.Append(ctx, buf[:k])
			total += n
			if werr != nil {
				return total, werr
			}
		}
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Restore 从持久化镜像恢复内容
func (c *Chip) Restore(ctx context.Context) error {
	if c.image == nil {
		return nil
	}
	data, err := c.image.LoadImage(ctx)
	if err != nil {
		return fmt.Errorf("flash: load image: %w", err)
	}
	if uint32(len(data)) > c.size() {
		data = data[:c.size()]
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.dev.WriteAt(data, 0); err != nil {
		return fmt.Errorf("flash: restore: %w", err)
	}
	c.offset = uint32(len(data))
	c.logger.Info("flash image restored", zap.Int("bytes", len(data)))
	return nil
}
