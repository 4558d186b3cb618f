package msp

import (
	"github.com/taoyao-code/msp-server/internal/fc"
)

const (
	// DataflashInfoSize 应答中为地址与头部预留的字节数
	DataflashInfoSize = 16
	// dataflashLegacyReadLen 旧格式请求的固定读取长度
	dataflashLegacyReadLen = 128
	// dataflashChunkSize 压缩时每次从闪存读取的块大小
	dataflashChunkSize = 256
	// huffmanInfoSize 压缩头中未压缩长度字段的大小
	huffmanInfoSize = 2
)

// dataflashRead DATAFLASH_READ
// 请求：u32 地址；载荷不少于 6 字节时为新格式，随后 u16 长度与可选的 u8 允许压缩；否则为旧格式，长度 128
func (e *Engine) dataflashRead(src *Reader, dst *Writer) {
	dataSize := src.Remaining()
	address := src.ReadU32()
	var (
		length        uint16
		allowCompress bool
		legacy        bool
	)
	if dataSize >= 4+2 {
		length = src.ReadU16()
		if src.Remaining() > 0 {
			allowCompress = src.ReadU8() != 0
		}
	} else {
		length = dataflashLegacyReadLen
		legacy = true
	}
	e.writeDataflashRead(dst, address, length, legacy, allowCompress)
}

func (e *Engine) writeDataflashRead(dst *Writer, address uint32, size uint16, legacy, allowCompress bool) {
	flash := e.fc.Services.Flash
	var flashSize uint32
	if flash != nil {
		flashSize = flash.Geometry().TotalSize
	}

	readLen := int(size)
	if room := dst.Remaining() - DataflashInfoSize; readLen > room {
		readLen = room
	}
	if readLen < 0 {
		readLen = 0
	}
	if address >= flashSize {
		readLen = 0
	} else if avail := flashSize - address; uint32(readLen) > avail {
		readLen = int(avail)
	}

	dst.WriteU32(address)

	method := uint8(CompressionNone)
	if allowCompress && !legacy && e.encoder != nil && e.fc.Caps.HuffmanFlash {
		method = CompressionHuffman
	}

	if method == CompressionNone {
		lenAt := dst.Mark()
		if !legacy {
			dst.WriteU16(uint16(readLen))
			dst.WriteU8(CompressionNone)
		}
		n := dst.Fill(readLen, func(window []byte) int {
			if flash == nil {
				return 0
			}
			return flash.ReadAt(window, address)
		})
		if legacy {
			// 旧格式补零到请求长度
			if pad := int(size) - n; pad > 0 {
				dst.Advance(minInt(pad, dst.Remaining()))
			}
		} else {
			dst.PatchU16(lenAt, uint16(n))
		}
		e.observer.ObserveDataflash(method, n)
		return
	}

	headerAt := dst.Mark()
	dst.Advance(2 + 1 + huffmanInfoSize)
	var readTotal int
	dst.Fill(readLen, func(window []byte) int {
		enc := e.encoder(window)
		chunk := make([]byte, dataflashChunkSize)
		for enc.Len() < len(window) && address+uint32(readTotal) < flashSize {
			want := minInt(dataflashChunkSize, int(flashSize-address)-readTotal)
			got := flash.ReadAt(chunk[:want], address+uint32(readTotal))
			if got <= 0 {
				break
			}
			if err := enc.Encode(chunk[:got]); err != nil {
				break
			}
			readTotal += got
		}
		return enc.Len()
	})
	written := dst.Since(headerAt) - (2 + 1 + huffmanInfoSize)
	dst.PatchU16(headerAt, uint16(huffmanInfoSize+written))
	dst.PatchU8(headerAt+2, CompressionHuffman)
	dst.PatchU16(headerAt+3, uint16(readTotal))
	e.observer.ObserveDataflash(method, readTotal)
}

// writeDataflashSummary DATAFLASH_SUMMARY
func (e *Engine) writeDataflashSummary(dst *Writer) {
	flash := e.fc.Services.Flash
	if !e.fc.Caps.Flash || flash == nil || !flash.Supported() {
		dst.WriteU8(0)
		dst.WriteU32(0)
		dst.WriteU32(0)
		dst.WriteU32(0)
		return
	}
	flags := uint8(flashFlagSupported)
	if flash.Ready() {
		flags |= flashFlagReady
	}
	g := flash.Geometry()
	dst.WriteU8(flags)
	dst.WriteU32(g.Sectors)
	dst.WriteU32(g.TotalSize)
	dst.WriteU32(flash.Offset())
}

// writeSDCardSummary SDCARD_SUMMARY
func (e *Engine) writeSDCardSummary(dst *Writer) {
	var s fc.SDCardSummary
	if e.fc.Caps.SDCard && e.fc.Services.SDCard != nil {
		s = e.fc.Services.SDCard.Summary()
	}
	var flags uint8
	if s.Supported {
		flags = fc.SDCardFlagSupported
	} else {
		s = fc.SDCardSummary{}
	}
	dst.WriteU8(flags)
	dst.WriteU8(s.State)
	dst.WriteU8(s.LastError)
	if s.State != fc.SDCardStateReady {
		s.FreeKB, s.TotalKB = 0, 0
	}
	dst.WriteU32(s.FreeKB)
	dst.WriteU32(s.TotalKB)
}
