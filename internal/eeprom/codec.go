// Package eeprom 配置快照的编码与持久化
package eeprom

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/taoyao-code/msp-server/internal/fc"
)

// FormatVersion 快照格式版本
const FormatVersion = 1

// ErrVersion 快照版本不受支持
var ErrVersion = errors.New("eeprom: unsupported snapshot version")

type snapshot struct {
	Version uint16     `cbor:"1,keyasint"`
	Config  *fc.Config `cbor:"2,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = (cbor.DecOptions{MaxArrayElements: 1 << 16}).DecMode(); err != nil {
		panic(err)
	}
}

// Encode 编码配置快照（确定性编码，相同配置得到相同字节）
func Encode(cfg *fc.Config) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("eeprom: nil config")
	}
	b, err := encMode.Marshal(snapshot{Version: FormatVersion, Config: cfg})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// Decode 解码配置快照，快照中缺失的字段保留出厂默认
func Decode(b []byte) (*fc.Config, error) {
	s := snapshot{Config: fc.Defaults()}
	if err := decMode.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, s.Version)
	}
	return s.Config, nil
}
