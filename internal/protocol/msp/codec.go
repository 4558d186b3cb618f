package msp

// writeLenString 写入 u8 长度前缀字符串
func writeLenString(w *Writer, s string) {
	if len(s) > 255 {
		s = s[:255]
	}
	w.WriteU8(uint8(len(s)))
	w.WriteString(s)
}

// writeFixed 写入定长字段，不足补零，超长截断
func writeFixed(w *Writer, s string, n int) {
	b := []byte(s)
	if len(b) > n {
		b = b[:n]
	}
	w.Write(b)
	w.Advance(n - len(b))
}

func writeBool(w *Writer, v bool) {
	if v {
		w.WriteU8(1)
		return
	}
	w.WriteU8(0)
}

func clampU8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}

func clampU16(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}

func clampI16(v int) int16 {
	if v < -0x8000 {
		return -0x8000
	}
	if v > 0x7FFF {
		return 0x7FFF
	}
	return int16(v)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// readString 读取剩余载荷（至多 n 字节）作为字符串
func readString(r *Reader, n int) string {
	return string(r.ReadBytes(minInt(r.Remaining(), n)))
}
