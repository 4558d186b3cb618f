package mspwire

import (
	"errors"
	"fmt"
)

type state uint8

const (
	stIdle state = iota
	stProto
	stDir
	stV1Size
	stV1Cmd
	stV1JumboLo
	stV1JumboHi
	stV2Flag
	stV2CmdLo
	stV2CmdHi
	stV2SizeLo
	stV2SizeHi
	stPayload
	stChecksum
)

// StreamDecoder 逐字节状态机：处理半包/粘包，帧间的杂散字节被跳过
type StreamDecoder struct {
	maxPayload int
	acceptV2   bool

	st      state
	version Version
	dir     byte
	flags   uint8
	cmd     uint16
	size    int
	payload []byte
	sum     byte
}

// NewStreamDecoder maxPayload 为单帧载荷上限，acceptV2 为 false 时 '$X' 被当作杂散字节
func NewStreamDecoder(maxPayload int, acceptV2 bool) *StreamDecoder {
	if maxPayload <= 0 {
		maxPayload = 0xFFFF
	}
	return &StreamDecoder{maxPayload: maxPayload, acceptV2: acceptV2}
}

// Reset 丢弃未完成的帧
func (d *StreamDecoder) Reset() {
	d.st = stIdle
	d.payload = nil
}

// Feed 输入一段字节，返回其中完整的帧；损坏的帧被丢弃，其错误合并后返回
func (d *StreamDecoder) Feed(p []byte) ([]*Frame, error) {
	var (
		out  []*Frame
		errs []error
	)
	for _, b := range p {
		fr, err := d.step(b)
		if err != nil {
			errs = append(errs, err)
		}
		if fr != nil {
			out = append(out, fr)
		}
	}
	return out, errors.Join(errs...)
}

func (d *StreamDecoder) step(b byte) (*Frame, error) {
	switch d.st {
	case stIdle:
		if b == '$' {
			d.st = stProto
		}
	case stProto:
		switch {
		case b == 'M':
			d.version = V1
			d.st = stDir
		case b == 'X' && d.acceptV2:
			d.version = V2
			d.st = stDir
		case b == '$':
		default:
			d.st = stIdle
		}
	case stDir:
		if b != DirRequest && b != DirReply && b != DirError {
			d.st = stIdle
			return nil, fmt.Errorf("%w: %q", ErrDirection, b)
		}
		d.dir = b
		if d.version == V1 {
			d.st = stV1Size
		} else {
			d.st = stV2Flag
		}

	case stV1Size:
		d.size = int(b)
		d.sum = b
		d.st = stV1Cmd
	case stV1Cmd:
		d.cmd = uint16(b)
		d.sum ^= b
		if d.size == jumboSize {
			d.st = stV1JumboLo
			return nil, nil
		}
		return d.beginPayload()
	case stV1JumboLo:
		d.size = int(b)
		d.sum ^= b
		d.st = stV1JumboHi
	case stV1JumboHi:
		d.size |= int(b) << 8
		d.sum ^= b
		return d.beginPayload()

	case stV2Flag:
		d.flags = b
		d.sum = CRC8DVBS2(0, b)
		d.st = stV2CmdLo
	case stV2CmdLo:
		d.cmd = uint16(b)
		d.sum = CRC8DVBS2(d.sum, b)
		d.st = stV2CmdHi
	case stV2CmdHi:
		d.cmd |= uint16(b) << 8
		d.sum = CRC8DVBS2(d.sum, b)
		d.st = stV2SizeLo
	case stV2SizeLo:
		d.size = int(b)
		d.sum = CRC8DVBS2(d.sum, b)
		d.st = stV2SizeHi
	case stV2SizeHi:
		d.size |= int(b) << 8
		d.sum = CRC8DVBS2(d.sum, b)
		return d.beginPayload()

	case stPayload:
		d.payload = append(d.payload, b)
		if d.version == V1 {
			d.sum ^= b
		} else {
			d.sum = CRC8DVBS2(d.sum, b)
		}
		if len(d.payload) == d.size {
			d.st = stChecksum
		}
	case stChecksum:
		d.st = stIdle
		if b != d.sum {
			d.payload = nil
			return nil, fmt.Errorf("%w: cmd %d", ErrChecksum, d.cmd)
		}
		fr := &Frame{Version: d.version, Direction: d.dir, Flags: d.flags, Cmd: d.cmd, Payload: d.payload}
		d.payload = nil
		return fr, nil
	}
	return nil, nil
}

func (d *StreamDecoder) beginPayload() (*Frame, error) {
	if d.size > d.maxPayload {
		d.st = stIdle
		return nil, fmt.Errorf("%w: %d > %d", ErrTooLarge, d.size, d.maxPayload)
	}
	d.payload = make([]byte, 0, d.size)
	if d.size == 0 {
		d.st = stChecksum
	} else {
		d.st = stPayload
	}
	if d.version == V1 {
		d.flags = 0
	}
	return nil, nil
}
