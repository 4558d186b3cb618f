package huffman

import "fmt"

// Encoder 向固定窗口逐位写入码字
type Encoder struct {
	tbl *Table
	out []byte
	pos int
	bit byte
}

// NewEncoder 创建写入 out 的编码器，out 中原有内容在首次写入时清零
func NewEncoder(tbl *Table, out []byte) *Encoder {
	return &Encoder{tbl: tbl, out: out, bit: 0x80}
}

// Encode 编码一段输入；窗口不足以容纳下一个位时返回 ErrOverflow，已写入的位保留
func (e *Encoder) Encode(src []byte) error {
	for _, b := range src {
		c := e.tbl.codes[b]
		test := uint16(0x8000)
		for i := uint8(0); i < c.Len; i++ {
			if e.pos >= len(e.out) {
				return ErrOverflow
			}
			if e.bit == 0x80 {
				e.out[e.pos] = 0
			}
			if c.Bits&test != 0 {
				e.out[e.pos] |= e.bit
			}
			test >>= 1
			e.bit >>= 1
			if e.bit == 0 {
				e.bit = 0x80
				e.pos++
			}
		}
	}
	return nil
}

// Len 已写入字节数（含未写满的最后一字节）
func (e *Encoder) Len() int {
	if e.bit != 0x80 {
		return e.pos + 1
	}
	return e.pos
}

// Decode 从位流中解出 n 个字节
func Decode(tbl *Table, src []byte, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	var code uint32
	var l uint8
	for i := 0; len(out) < n; i++ {
		if i >= len(src)*8 {
			return out, ErrShortInput
		}
		bit := (src[i/8] >> (7 - uint(i%8))) & 1
		code = code<<1 | uint32(bit)
		l++
		if s, ok := tbl.decode[decodeKey(l, code)]; ok {
			out = append(out, s)
			code, l = 0, 0
			continue
		}
		if l >= MaxCodeLen {
			return out, fmt.Errorf("%w at bit %d", ErrCorrupt, i)
		}
	}
	return out, nil
}
