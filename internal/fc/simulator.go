package fc

import (
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Simulator 虚拟飞控的外设实现（系统控制、电调、图传、相机、字库、时钟、SD 卡）
// 仅记录调用并维护少量状态，供服务进程与测试使用
type Simulator struct {
	mu     sync.Mutex
	logger *zap.Logger
	ctx    *Context

	escCount   uint8
	mscReady   bool
	sdcard     SDCardSummary
	vtxType    uint8
	vtxPit     uint8
	font       map[uint16][]byte
	clockSet   bool
	clockBase  time.Time
	clockSetAt time.Time

	Calls SimulatorCalls
}

// SimulatorCalls 调用计数
type SimulatorCalls struct {
	StopMotors        int
	Reset             int
	ResetToBootloader int
	ResetToMSC        int
	LastTZOffset      int16
	FourWay           int
	Passthrough       int
	LastPassthrough   [2]uint8
	CameraKeys        []uint8
}

// NewSimulator 创建外设模拟器
func NewSimulator(logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		logger:   logger,
		escCount: 4,
		mscReady: true,
		vtxType:  VTXDevUnknown,
		font:     make(map[uint16][]byte),
	}
}

// Bind 关联配置上下文（复位时重新加载配置）
func (s *Simulator) Bind(c *Context) { s.ctx = c }

// Services 以模拟器填充外设，Store/Board/Flash 保持调用方提供
func (s *Simulator) Services(base Services) Services {
	base.System = s
	base.ESC = s
	base.VTX = s
	base.Camera = s
	base.Font = s
	base.Clock = s
	base.SDCard = s
	return base
}

// SetMSCReady 设置大容量存储是否就绪
func (s *Simulator) SetMSCReady(v bool) {
	s.mu.Lock()
	s.mscReady = v
	s.mu.Unlock()
}

// SetVTXType 设置图传类型
func (s *Simulator) SetVTXType(t uint8) {
	s.mu.Lock()
	s.vtxType = t
	s.mu.Unlock()
}

// SetSDCard 设置 SD 卡摘要
func (s *Simulator) SetSDCard(sum SDCardSummary) {
	s.mu.Lock()
	s.sdcard = sum
	s.mu.Unlock()
}

// StopMotors 停转
func (s *Simulator) StopMotors() {
	s.mu.Lock()
	s.Calls.StopMotors++
	s.mu.Unlock()
	if s.ctx != nil {
		s.ctx.State.Motors = s.ctx.State.MotorsDisarmed
	}
	s.logger.Info("motors stopped")
}

// Reset 软复位：重新加载配置并恢复初始运行状态
func (s *Simulator) Reset() {
	s.mu.Lock()
	s.Calls.Reset++
	s.mu.Unlock()
	s.logger.Warn("system reset")
	s.reload()
}

// ResetToBootloader 进入 bootloader
func (s *Simulator) ResetToBootloader() {
	s.mu.Lock()
	s.Calls.ResetToBootloader++
	s.mu.Unlock()
	s.logger.Warn("reset to bootloader")
	s.reload()
}

// ResetToMSC 进入大容量存储模式
func (s *Simulator) ResetToMSC(tz int16) {
	s.mu.Lock()
	s.Calls.ResetToMSC++
	s.Calls.LastTZOffset = tz
	s.mu.Unlock()
	s.logger.Warn("reset to mass storage", zap.Int16("tz_offset", tz))
	s.reload()
}

func (s *Simulator) reload() {
	if s.ctx == nil {
		return
	}
	if err := s.ctx.ReadEEPROM(); err != nil {
		s.logger.Error("reload config after reset", zap.Error(err))
	}
	caps := s.ctx.Caps
	s.ctx.State = NewState()
	s.ctx.State.Sensors.Mag = caps.Mag
	s.ctx.State.Sensors.Baro = caps.Baro
}

// MSCReady 大容量存储是否就绪
func (s *Simulator) MSCReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mscReady
}

// FourWayInit 4way 初始化，返回电调数
func (s *Simulator) FourWayInit() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.escCount
}

// FourWayProcess 4way 会话：回显直到对端关闭
func (s *Simulator) FourWayProcess(port io.ReadWriter) error {
	s.mu.Lock()
	s.Calls.FourWay++
	s.mu.Unlock()
	s.logger.Info("4way interface session started")
	if port == nil {
		return nil
	}
	_, err := io.Copy(port, port)
	return err
}

// Passthrough 串口透传
func (s *Simulator) Passthrough(port io.ReadWriter, index, mode uint8) error {
	s.mu.Lock()
	s.Calls.Passthrough++
	s.Calls.LastPassthrough = [2]uint8{index, mode}
	s.mu.Unlock()
	s.logger.Info("esc passthrough", zap.Uint8("port", index), zap.Uint8("mode", mode))
	return nil
}

// DeviceType 图传类型
func (s *Simulator) DeviceType() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vtxType
}

// Ready 图传是否就绪
func (s *Simulator) Ready() bool {
	return s.DeviceType() != VTXDevUnknown
}

// PitMode 坑位模式
func (s *Simulator) PitMode() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vtxPit
}

// SetPitMode 设置坑位模式
func (s *Simulator) SetPitMode(on uint8) {
	s.mu.Lock()
	s.vtxPit = on
	s.mu.Unlock()
}

// 5.8G 频率表（A/B/E/F/R）
var vtxFrequencyTable = [5][8]uint16{
	{5865, 5845, 5825, 5805, 5785, 5765, 5745, 5725},
	{5733, 5752, 5771, 5790, 5809, 5828, 5847, 5866},
	{5705, 5685, 5665, 5645, 5885, 5905, 5925, 5945},
	{5740, 5760, 5780, 5800, 5820, 5840, 5860, 5880},
	{5658, 5695, 5732, 5769, 5806, 5843, 5880, 5917},
}

// LookupFrequency 频段/频点（均从 1 开始）查频率
func (s *Simulator) LookupFrequency(band, channel uint8) uint16 {
	if band < 1 || int(band) > len(vtxFrequencyTable) || channel < 1 || channel > 8 {
		return 0
	}
	return vtxFrequencyTable[band-1][channel-1]
}

// Supported 相机控制可用
func (s *Simulator) Supported() bool { return true }

// KeyPress 相机按键
func (s *Simulator) KeyPress(key uint8, holdMs uint16) {
	s.mu.Lock()
	s.Calls.CameraKeys = append(s.Calls.CameraKeys, key)
	s.mu.Unlock()
	s.logger.Debug("camera key", zap.Uint8("key", key), zap.Uint16("hold_ms", holdMs))
}

// WriteChar 写字库字符
func (s *Simulator) WriteChar(addr uint16, data []byte) error {
	s.mu.Lock()
	s.font[addr] = append([]byte(nil), data...)
	s.mu.Unlock()
	return nil
}

// ReadChar 读字库字符
func (s *Simulator) ReadChar(addr uint16) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.font[addr]
	if !ok {
		return nil, ErrNotSupported
	}
	return append([]byte(nil), d...), nil
}

// Now 当前 RTC 时间，未设置时返回 false
func (s *Simulator) Now() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.clockSet {
		return time.Time{}, false
	}
	return s.clockBase.Add(time.Since(s.clockSetAt)), true
}

// Set 设置 RTC
func (s *Simulator) Set(t time.Time) {
	s.mu.Lock()
	s.clockSet = true
	s.clockBase = t
	s.clockSetAt = time.Now()
	s.mu.Unlock()
}

// Summary SD 卡摘要
func (s *Simulator) Summary() SDCardSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sdcard
}
