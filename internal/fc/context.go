package fc

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Context 命令引擎的配置上下文
// 持有实时配置、运行状态、能力集与外部协作方，不做并发保护（由引擎串行化）
type Context struct {
	Caps     Capabilities
	Identity Identity
	Config   *Config
	State    *State
	Services Services

	featureShadow *uint32
	storeTimeout  time.Duration
	logger        *zap.Logger
}

// Option 上下文选项
type Option func(*Context)

// WithLogger 设置日志
func WithLogger(l *zap.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStoreTimeout 设置配置持久化超时
func WithStoreTimeout(d time.Duration) Option {
	return func(c *Context) {
		if d > 0 {
			c.storeTimeout = d
		}
	}
}

// NewContext 创建上下文，cfg 为 nil 时使用出厂默认
func NewContext(caps Capabilities, id Identity, cfg *Config, svc Services, opts ...Option) *Context {
	if cfg == nil {
		cfg = Defaults()
	}
	c := &Context{
		Caps:         caps,
		Identity:     id,
		Config:       cfg,
		State:        NewState(),
		Services:     svc,
		storeTimeout: 3 * time.Second,
		logger:       zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.State.Sensors.Mag = caps.Mag
	c.State.Sensors.Baro = caps.Baro
	c.State.Sensors.GPS = caps.GPS && cfg.Features&FeatureGPS != 0
	c.State.Sensors.Rangefinder = caps.Rangefinder
	return c
}

// Logger 日志
func (c *Context) Logger() *zap.Logger { return c.logger }

// PIDProfile 当前 PID 档位
func (c *Context) PIDProfile() *PIDProfile {
	i := c.Config.System.PIDProfileIndex
	if int(i) >= PIDProfileCount {
		i = 0
	}
	return &c.Config.PIDProfiles[i]
}

// RateProfile 当前速率档位
func (c *Context) RateProfile() *RateProfile {
	i := c.Config.System.ActiveRateProfile
	if int(i) >= ControlRateProfileCount {
		i = 0
	}
	return &c.Config.RateProfiles[i]
}

// SelectPIDProfile 切换 PID 档位，越界忽略
func (c *Context) SelectPIDProfile(i uint8) {
	if int(i) >= PIDProfileCount {
		return
	}
	c.Config.System.PIDProfileIndex = i
	c.logger.Debug("pid profile selected", zap.Uint8("index", i))
}

// SelectRateProfile 切换速率档位，越界忽略
func (c *Context) SelectRateProfile(i uint8) {
	if int(i) >= ControlRateProfileCount {
		return
	}
	c.Config.System.ActiveRateProfile = i
	c.logger.Debug("rate profile selected", zap.Uint8("index", i))
}

// FeatureMask 对外可见的特性位（有暂存值时返回暂存值）
func (c *Context) FeatureMask() uint32 {
	if c.featureShadow != nil {
		return *c.featureShadow
	}
	return c.Config.Features
}

// StageFeatureMask 暂存特性位，保存 EEPROM 时生效
func (c *Context) StageFeatureMask(mask uint32) {
	v := mask
	c.featureShadow = &v
}

// FeatureShadow 暂存值
func (c *Context) FeatureShadow() (uint32, bool) {
	if c.featureShadow == nil {
		return 0, false
	}
	return *c.featureShadow, true
}

// MotorCount 已启用电机数
func (c *Context) MotorCount() int {
	n := c.State.MotorCount
	if n > MaxSupportedMotors {
		n = MaxSupportedMotors
	}
	return n
}

// WriteEEPROM 合并暂存特性位并持久化；保存成功后才更新内存并清除暂存
func (c *Context) WriteEEPROM() error {
	next := c.Config.Clone()
	if v, ok := c.FeatureShadow(); ok {
		next.Features = v
	}
	if err := c.save(next); err != nil {
		return err
	}
	c.Config.Features = next.Features
	c.featureShadow = nil
	return nil
}

func (c *Context) save(cfg *Config) error {
	if c.Services.Store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.storeTimeout)
	defer cancel()
	if err := c.Services.Store.Save(ctx, cfg.Clone()); err != nil {
		c.logger.Error("eeprom write failed", zap.Error(err))
		return fmt.Errorf("write eeprom: %w", err)
	}
	c.logger.Info("eeprom written")
	return nil
}

// ReadEEPROM 从持久化重新加载配置
func (c *Context) ReadEEPROM() error {
	if c.Services.Store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.storeTimeout)
	defer cancel()
	cfg, err := c.Services.Store.Load(ctx)
	if err != nil {
		return fmt.Errorf("read eeprom: %w", err)
	}
	c.Config = cfg
	return nil
}

// ResetEEPROM 恢复出厂默认并保存（板卡信息保留）
func (c *Context) ResetEEPROM() error {
	next := Defaults()
	next.Board = c.Config.Board
	if err := c.save(next); err != nil {
		return err
	}
	c.Config = next
	c.featureShadow = nil
	c.logger.Warn("configuration reset to defaults")
	return nil
}

// SetBoardInfo 一次性写入板卡名称与厂商编号并持久化，已写入返回 ErrImmutable
func (c *Context) SetBoardInfo(boardName, manufacturerID string) error {
	if c.Config.Board.InfoSet {
		return ErrImmutable
	}
	board := c.Config.Board
	board.BoardName = boardName
	board.ManufacturerID = manufacturerID
	board.InfoSet = true
	if c.Services.Board != nil {
		ctx, cancel := context.WithTimeout(context.Background(), c.storeTimeout)
		defer cancel()
		if err := c.Services.Board.PersistBoardInfo(ctx, board); err != nil {
			c.logger.Error("persist board info failed", zap.Error(err))
			return fmt.Errorf("persist board info: %w", err)
		}
	}
	c.Config.Board = board
	c.logger.Info("board info set",
		zap.String("board_name", boardName), zap.String("manufacturer_id", manufacturerID))
	return nil
}

// SetSignature 一次性写入签名并持久化
func (c *Context) SetSignature(sig []byte) error {
	if c.Config.Board.SignatureSet {
		return ErrImmutable
	}
	cp := make([]byte, SignatureLength)
	copy(cp, sig)
	if c.Services.Board != nil {
		ctx, cancel := context.WithTimeout(context.Background(), c.storeTimeout)
		defer cancel()
		if err := c.Services.Board.PersistSignature(ctx, cp); err != nil {
			c.logger.Error("persist signature failed", zap.Error(err))
			return fmt.Errorf("persist signature: %w", err)
		}
	}
	c.Config.Board.Signature = cp
	c.Config.Board.SignatureSet = true
	c.logger.Info("signature set")
	return nil
}
