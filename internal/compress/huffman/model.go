package huffman

import (
	"fmt"
	"strings"
	"sync"
)

const (
	// ModelBlackbox 黑匣子日志模型，零值与小整数占多数
	ModelBlackbox = "blackbox"
	// ModelUniform 均匀分布
	ModelUniform = "uniform"
)

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// BlackboxFrequencies 黑匣子日志的字节频率估计
func BlackboxFrequencies() [256]uint32 {
	var f [256]uint32
	for i := range f {
		f[i] = 4
	}
	f[0x00] = 4096
	f[0xFF] = 512
	for i := 1; i < 16; i++ {
		f[i] = uint32(1024 >> (i / 2))
	}
	for i := 16; i < 64; i++ {
		f[i] = 24
	}
	// 帧头 'I' 'P' 'E' 'H'
	for _, c := range []byte{'I', 'P', 'E', 'H'} {
		f[c] = 96
	}
	return f
}

// UniformFrequencies 均匀分布
func UniformFrequencies() [256]uint32 {
	var f [256]uint32
	for i := range f {
		f[i] = 1
	}
	return f
}

// DefaultTable 黑匣子模型码表（进程内共享）
func DefaultTable() *Table {
	defaultOnce.Do(func() {
		t, err := NewTable(BlackboxFrequencies())
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// TableForModel 按名称返回码表
func TableForModel(name string) (*Table, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ModelBlackbox:
		return DefaultTable(), nil
	case ModelUniform:
		return NewTable(UniformFrequencies())
	default:
		return nil, fmt.Errorf("huffman: unknown model %q", name)
	}
}
