// Package mspwire MSP v1/v2 帧编解码
//
// v1: '$' 'M' dir size cmd payload xor；size 为 255 时为巨帧，cmd 之后跟 u16 实际长度
// v2: '$' 'X' dir flag cmd(u16) size(u16) payload crc8_dvb_s2
package mspwire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Version 协议版本
type Version uint8

const (
	V1 Version = 1
	V2 Version = 2
)

func (v Version) String() string { return fmt.Sprintf("v%d", uint8(v)) }

// 方向字符
const (
	DirRequest = '<'
	DirReply   = '>'
	DirError   = '!'
)

const (
	jumboSize = 255
	// MaxV1Cmd v1 命令码上限
	MaxV1Cmd = 255
)

var (
	// ErrChecksum 校验失败
	ErrChecksum = errors.New("mspwire: checksum mismatch")
	// ErrTooLarge 载荷超过上限
	ErrTooLarge = errors.New("mspwire: payload too large")
	// ErrDirection 非法方向字符
	ErrDirection = errors.New("mspwire: bad direction")
)

// Frame 一帧
type Frame struct {
	Version   Version
	Direction byte
	Flags     uint8
	Cmd       uint16
	Payload   []byte
}

// Reason 错误的指标标签
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrChecksum):
		return "checksum"
	case errors.Is(err, ErrTooLarge):
		return "too_large"
	case errors.Is(err, ErrDirection):
		return "direction"
	default:
		return "other"
	}
}

// Checksum v1 异或校验
func Checksum(b []byte) byte {
	var c byte
	for _, x := range b {
		c ^= x
	}
	return c
}

// CRC8DVBS2 单字节累加
func CRC8DVBS2(crc, a byte) byte {
	crc ^= a
	for i := 0; i < 8; i++ {
		if crc&0x80 != 0 {
			crc = crc<<1 ^ 0xD5
		} else {
			crc <<= 1
		}
	}
	return crc
}

// CRC8DVBS2Bytes 对整段计算
func CRC8DVBS2Bytes(crc byte, b []byte) byte {
	for _, x := range b {
		crc = CRC8DVBS2(crc, x)
	}
	return crc
}

// Append 将帧编码追加到 dst
// v1 载荷达到 255 字节时使用巨帧；v1 无法表示大于 255 的命令码，此时返回错误
func Append(dst []byte, f Frame) ([]byte, error) {
	switch f.Version {
	case V2:
		if len(f.Payload) > 0xFFFF {
			return dst, ErrTooLarge
		}
		dst = append(dst, '$', 'X', f.Direction)
		start := len(dst)
		dst = append(dst, f.Flags)
		dst = binary.LittleEndian.AppendUint16(dst, f.Cmd)
		dst = binary.LittleEndian.AppendUint16(dst, uint16(len(f.Payload)))
		dst = append(dst, f.Payload...)
		return append(dst, CRC8DVBS2Bytes(0, dst[start:])), nil
	default:
		if f.Cmd > MaxV1Cmd {
			return dst, fmt.Errorf("mspwire: cmd %d does not fit v1", f.Cmd)
		}
		if len(f.Payload) > 0xFFFF {
			return dst, ErrTooLarge
		}
		dst = append(dst, '$', 'M', f.Direction)
		start := len(dst)
		if len(f.Payload) >= jumboSize {
			dst = append(dst, jumboSize, uint8(f.Cmd))
			dst = binary.LittleEndian.AppendUint16(dst, uint16(len(f.Payload)))
		} else {
			dst = append(dst, uint8(len(f.Payload)), uint8(f.Cmd))
		}
		dst = append(dst, f.Payload...)
		return append(dst, Checksum(dst[start:])), nil
	}
}

// Encode 编码为新切片
func Encode(f Frame) ([]byte, error) {
	return Append(make([]byte, 0, len(f.Payload)+9), f)
}
