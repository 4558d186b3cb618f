package msp

import "encoding/binary"

// Reader 请求载荷的只读游标（小端）
// 越界读取返回零值并停在末尾，游标位置永远不会超出缓冲区
type Reader struct {
	buf []byte
	pos int
}

// NewReader 基于调用方缓冲区创建读取游标
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Remaining 剩余可读字节数
func (r *Reader) Remaining() int {
	if r == nil {
		return 0
	}
	return len(r.buf) - r.pos
}

// Len 载荷总长度
func (r *Reader) Len() int {
	if r == nil {
		return 0
	}
	return len(r.buf)
}

// Mark 返回当前位置，供 Rewind 回退
func (r *Reader) Mark() Mark { return Mark(r.pos) }

// Rewind 回退到之前记录的位置
func (r *Reader) Rewind(m Mark) {
	p := int(m)
	if p < 0 {
		p = 0
	}
	if p > len(r.buf) {
		p = len(r.buf)
	}
	r.pos = p
}

// ReadU8 读取 1 字节
func (r *Reader) ReadU8() uint8 {
	if r.Remaining() < 1 {
		r.pos = len(r.buf)
		return 0
	}
	v := r.buf[r.pos]
	r.pos++
	return v
}

// ReadU16 读取小端 u16
func (r *Reader) ReadU16() uint16 {
	if r.Remaining() < 2 {
		r.pos = len(r.buf)
		return 0
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v
}

// ReadU32 读取小端 u32
func (r *Reader) ReadU32() uint32 {
	if r.Remaining() < 4 {
		r.pos = len(r.buf)
		return 0
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v
}

// Read 拷贝最多 len(p) 字节，返回实际拷贝数
func (r *Reader) Read(p []byte) int {
	n := copy(p, r.buf[r.pos:])
	r.pos += n
	return n
}

// ReadBytes 读取 n 字节的副本（不足时截断）
func (r *Reader) ReadBytes(n int) []byte {
	if n > r.Remaining() {
		n = r.Remaining()
	}
	if n <= 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out
}

// Advance 跳过 n 字节
func (r *Reader) Advance(n int) {
	if n <= 0 {
		return
	}
	if n > r.Remaining() {
		n = r.Remaining()
	}
	r.pos += n
}

// Mark 游标位置标记
type Mark int

// Writer 应答载荷的写游标，容量由传输层给定
// 超出容量的写入被截断并置 overflow，长度永远不会超过容量
type Writer struct {
	buf      []byte
	pos      int
	overflow bool
}

// NewWriter 按容量分配应答缓冲区
func NewWriter(capacity int) *Writer {
	if capacity < 0 {
		capacity = 0
	}
	return &Writer{buf: make([]byte, capacity)}
}

// NewWriterBuffer 复用调用方缓冲区（全长即容量）
func NewWriterBuffer(b []byte) *Writer {
	return &Writer{buf: b}
}

// Len 已写入字节数
func (w *Writer) Len() int { return w.pos }

// Remaining 剩余可写字节数
func (w *Writer) Remaining() int { return len(w.buf) - w.pos }

// Overflowed 是否发生过截断
func (w *Writer) Overflowed() bool { return w.overflow }

// Bytes 已写入内容的副本
func (w *Writer) Bytes() []byte {
	out := make([]byte, w.pos)
	copy(out, w.buf[:w.pos])
	return out
}

// Mark 当前写位置
func (w *Writer) Mark() Mark { return Mark(w.pos) }

// Since 自 m 以来写入的字节数
func (w *Writer) Since(m Mark) int { return w.pos - int(m) }

// Truncate 回退写位置到 m（丢弃其后的内容）
func (w *Writer) Truncate(m Mark) {
	p := int(m)
	if p < 0 || p > w.pos {
		return
	}
	w.pos = p
}

// Reset 清空
func (w *Writer) Reset() {
	w.pos = 0
	w.overflow = false
}

// WriteU8 写 1 字节
func (w *Writer) WriteU8(v uint8) {
	if w.Remaining() < 1 {
		w.overflow = true
		return
	}
	w.buf[w.pos] = v
	w.pos++
}

// WriteU16 写小端 u16
func (w *Writer) WriteU16(v uint16) {
	if w.Remaining() < 2 {
		w.fill([]byte{byte(v), byte(v >> 8)})
		return
	}
	binary.LittleEndian.PutUint16(w.buf[w.pos:], v)
	w.pos += 2
}

// WriteU32 写小端 u32
func (w *Writer) WriteU32(v uint32) {
	if w.Remaining() < 4 {
		w.fill([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
		return
	}
	binary.LittleEndian.PutUint32(w.buf[w.pos:], v)
	w.pos += 4
}

// Write 写入数据，返回实际写入数
func (w *Writer) Write(p []byte) int {
	return w.fill(p)
}

// WriteString 写入原始字符串字节（无长度前缀、无结束符）
func (w *Writer) WriteString(s string) int {
	return w.fill([]byte(s))
}

// Advance 写入 n 个零字节
func (w *Writer) Advance(n int) {
	for i := 0; i < n; i++ {
		if w.Remaining() < 1 {
			w.overflow = true
			return
		}
		w.buf[w.pos] = 0
		w.pos++
	}
}

// Fill 将至多 n 字节的可写窗口交给 fn 直接填充（窗口容量受限，不能越界），
// 游标按 fn 返回值前进并返回该值
func (w *Writer) Fill(n int, fn func(window []byte) int) int {
	if n > w.Remaining() {
		n = w.Remaining()
	}
	if n <= 0 {
		return 0
	}
	window := w.buf[w.pos : w.pos+n : w.pos+n]
	k := fn(window)
	if k < 0 {
		k = 0
	}
	if k > n {
		k = n
	}
	w.pos += k
	return k
}

// PatchU8 回填已写区域中 m 处的 1 字节
func (w *Writer) PatchU8(m Mark, v uint8) {
	p := int(m)
	if p < 0 || p+1 > w.pos {
		return
	}
	w.buf[p] = v
}

// PatchU16 回填已写区域中 m 处的 u16
func (w *Writer) PatchU16(m Mark, v uint16) {
	p := int(m)
	if p < 0 || p+2 > w.pos {
		return
	}
	binary.LittleEndian.PutUint16(w.buf[p:], v)
}

func (w *Writer) fill(p []byte) int {
	n := copy(w.buf[w.pos:], p)
	w.pos += n
	if n < len(p) {
		w.overflow = true
	}
	return n
}
