package msp

import "errors"

// ErrOverflow 压缩输出窗口已满而输入尚未编码完
var ErrOverflow = errors.New("msp: encoder output full")

// StreamEncoder 流式压缩编码器，直接写入给定输出窗口
type StreamEncoder interface {
	// Encode 追加编码一段输入，窗口写满且仍有未写出的位时返回 ErrOverflow
	Encode(chunk []byte) error
	// Len 已写出的字节数（含未写满的最后一个字节）
	Len() int
}

// EncoderFactory 在输出窗口上创建编码器
type EncoderFactory func(out []byte) StreamEncoder

// 数据闪存压缩方式
const (
	CompressionNone    = 0
	CompressionHuffman = 1
)
