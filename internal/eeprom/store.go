package eeprom

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/taoyao-code/msp-server/internal/fc"
)

// ErrEmpty 后端中没有快照
var ErrEmpty = errors.New("eeprom: no snapshot")

// Backend 快照字节的存取
type Backend interface {
	ReadSnapshot(ctx context.Context) ([]byte, error)
	WriteSnapshot(ctx context.Context, data []byte) error
}

// Store 实现 fc.ConfigStore：CBOR 编码后交给后端
type Store struct {
	backend Backend
	logger  *zap.Logger
}

// NewStore 创建配置存储
func NewStore(b Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: b, logger: logger}
}

// Load 读取配置，后端为空时返回出厂默认
func (s *Store) Load(ctx context.Context) (*fc.Config, error) {
	data, err := s.backend.ReadSnapshot(ctx)
	if errors.Is(err, ErrEmpty) {
		s.logger.Info("eeprom empty, using defaults")
		return fc.Defaults(), nil
	}
	if err != nil {
		return nil, err
	}
	cfg, err := Decode(data)
	if err != nil {
		s.logger.Error("eeprom snapshot corrupt", zap.Error(err), zap.Int("bytes", len(data)))
		return nil, err
	}
	return cfg, nil
}

// Save 编码并写入
func (s *Store) Save(ctx context.Context, cfg *fc.Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := s.backend.WriteSnapshot(ctx, data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	s.logger.Debug("eeprom snapshot saved", zap.Int("bytes", len(data)))
	return nil
}

// MemoryBackend 进程内快照
type MemoryBackend struct {
	mu     sync.Mutex
	data   []byte
	writes int
}

// NewMemoryBackend 创建内存后端
func NewMemoryBackend() *MemoryBackend { return &MemoryBackend{} }

func (m *MemoryBackend) ReadSnapshot(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrEmpty
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryBackend) WriteSnapshot(_ context.Context, data []byte) error {
	m.mu.Lock()
	m.data = append([]byte(nil), data...)
	m.writes++
	m.mu.Unlock()
	return nil
}

// Writes 写入次数
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FileBackend 本地文件快照（先写临时文件再改名）
type FileBackend struct {
	Path string
}

func (f FileBackend) ReadSnapshot(context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrEmpty
	}
	return data, err
}

func (f FileBackend) WriteSnapshot(_ context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}
