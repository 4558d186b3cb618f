package fc

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotSupported 设备未接入
var ErrNotSupported = errors.New("fc: not supported")

// ConfigStore 配置持久化（EEPROM）
type ConfigStore interface {
	Load(ctx context.Context) (*Config, error)
	Save(ctx context.Context, cfg *Config) error
}

// ErrImmutable 一次性字段已写入
var ErrImmutable = errors.New("fc: already set")

// BoardStore 板卡信息/签名的一次性持久化
type BoardStore interface {
	PersistBoardInfo(ctx context.Context, board BoardConfig) error
	PersistSignature(ctx context.Context, signature []byte) error
}

// FlashGeometry 闪存几何信息
type FlashGeometry struct {
	Sectors    uint32
	TotalSize  uint32
	PageSize   uint32
	SectorSize uint32
}

// Flash 黑匣子数据闪存
type Flash interface {
	Supported() bool
	Ready() bool
	Geometry() FlashGeometry
	// Offset 已写入日志的末尾偏移
	Offset() uint32
	// ReadAt 从 addr 读取至多 len(p) 字节，返回实际读取数
	ReadAt(p []byte, addr uint32) int
	EraseAll() error
}

// SD 卡状态
const (
	SDCardStateNotPresent = 0
	SDCardStateFatal      = 1
	SDCardStateCardInit   = 2
	SDCardStateFSInit     = 3
	SDCardStateReady      = 4

	SDCardFlagSupported = 1
)

// SDCardSummary SD 卡摘要
type SDCardSummary struct {
	Supported bool
	State     uint8
	LastError uint8
	FreeKB    uint32
	TotalKB   uint32
}

// SDCard 黑匣子 SD 卡
type SDCard interface {
	Summary() SDCardSummary
}

// 重启目标
const (
	RebootFirmware   = 0
	RebootBootloader = 1
	RebootMSC        = 2
	RebootMSCUTC     = 3
	RebootCount      = 4
)

// System 系统控制
type System interface {
	StopMotors()
	Reset()
	ResetToBootloader()
	ResetToMSC(tzOffsetMinutes int16)
	// MSCReady 大容量存储模式是否可进入
	MSCReady() bool
}

// ESC 电调透传
type ESC interface {
	// FourWayInit 初始化 4way 接口并返回电调数量
	FourWayInit() uint8
	FourWayProcess(port io.ReadWriter) error
	Passthrough(port io.ReadWriter, index, mode uint8) error
}

// VTX 图传设备
type VTX interface {
	DeviceType() uint8
	Ready() bool
	PitMode() uint8
	SetPitMode(on uint8)
	// LookupFrequency 由频段/频点查频率，0 表示未知
	LookupFrequency(band, channel uint8) uint16
}

// Camera 相机按键控制
type Camera interface {
	Supported() bool
	KeyPress(key uint8, holdMs uint16)
}

// OSDFont OSD 字库写入
type OSDFont interface {
	WriteChar(addr uint16, data []byte) error
	ReadChar(addr uint16) ([]byte, error)
}

// Clock 实时时钟
type Clock interface {
	Now() (time.Time, bool)
	Set(t time.Time)
}

// Services 引擎依赖的外部协作方，均可为 nil（视作未接入）
type Services struct {
	Store  ConfigStore
	Board  BoardStore
	Flash  Flash
	SDCard SDCard
	System System
	ESC    ESC
	VTX    VTX
	Camera Camera
	Font   OSDFont
	Clock  Clock
}
