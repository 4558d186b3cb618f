package mspwire

import (
	"bytes"

	padapter "github.com/taoyao-code/msp-server/internal/protocol/adapter"
)

// Adapter 将字节流解码为帧并逐帧回调
type Adapter struct {
	dec     *StreamDecoder
	onFrame func(*Frame) error
	onError func(error)
}

// NewAdapter onError 接收被丢弃帧的错误，可为 nil
func NewAdapter(dec *StreamDecoder, onFrame func(*Frame) error, onError func(error)) *Adapter {
	return &Adapter{dec: dec, onFrame: onFrame, onError: onError}
}

// Sniff 前缀中出现 "$M" 或 "$X" 即认为是 MSP
func (a *Adapter) Sniff(prefix []byte) bool {
	return bytes.Contains(prefix, []byte("$M")) || bytes.Contains(prefix, []byte("$X"))
}

// ProcessBytes 输入原始字节；回调返回错误时停止处理剩余帧并返回该错误
func (a *Adapter) ProcessBytes(p []byte) error {
	frames, err := a.dec.Feed(p)
	if err != nil && a.onError != nil {
		a.onError(err)
	}
	for _, f := range frames {
		if err := a.onFrame(f); err != nil {
			return err
		}
	}
	return nil
}

var _ padapter.Adapter = (*Adapter)(nil)
