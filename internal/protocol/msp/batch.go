package msp

// batch MULTIPLE_MSP：请求载荷为子命令码序列，应答为 [u8 长度][子应答] 的串联
// 第一遍在应答缓冲区上试算每个子应答的大小，确定能放下的子命令数；第二遍正式输出
func (e *Engine) batch(src *Reader, dst *Writer) Result {
	if src.Remaining() == 0 {
		return ResultError
	}
	// 保留一个字节给帧校验
	budget := dst.Remaining() - 1
	empty := NewReader(nil)
	start := src.Mark()

	maxMSPs := 0
	for src.Remaining() > 0 && budget > 0 {
		sub := src.ReadU8()
		scratch := dst.window()
		e.process(sub, empty, scratch, nil)
		budget -= scratch.Len() + 1
		if budget >= 0 {
			maxMSPs++
		}
	}

	src.Rewind(start)
	out := dst.window()
	for i := 0; i < maxMSPs; i++ {
		sizeAt := out.Mark()
		out.WriteU8(0)
		sub := src.ReadU8()
		e.process(sub, NewReader(nil), out, nil)
		out.PatchU8(sizeAt, uint8(out.Since(sizeAt)-1))
	}
	dst.commit(out)
	e.observer.ObserveBatch(maxMSPs)
	return ResultAck
}

// window 以当前位置到末尾的剩余空间创建子写游标（共享底层内存）
func (w *Writer) window() *Writer {
	return &Writer{buf: w.buf[w.pos:len(w.buf):len(w.buf)]}
}

// commit 将子写游标已写内容并入
func (w *Writer) commit(sub *Writer) {
	w.pos += sub.pos
	if sub.overflow {
		w.overflow = true
	}
}
