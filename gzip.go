package deflate

import (
	"encoding/binary"
	"fmt"
)

const (
	gzipMagic0  = 0x1f
	gzipMagic1  = 0x8b
	gzipMethod  = 8
	gzipHdrSize = 10
	gzipTlrSize = 8
)

// GzipCompress wraps the raw DEFLATE encoding of src (at the given level) in
// a single RFC 1952 gzip member: 10-byte header, compressed payload, 8-byte
// CRC-32/size trailer.
func GzipCompress(level int, dst, src []byte) []byte {
	var xfl byte
	switch {
	case level >= 10:
		xfl = 2
	case level <= 2:
		xfl = 4
	}
	dst = append(dst, gzipMagic0, gzipMagic1, gzipMethod, 0, 0, 0, 0, 0, xfl, 0xff)
	dst = NewCompressor(level).Compress(dst, src)
	crc := CRC32(0, src)
	dst = binary.LittleEndian.AppendUint32(dst, crc)
	return binary.LittleEndian.AppendUint32(dst, uint32(len(src)))
}

// GzipDecompress decodes one or more concatenated RFC 1952 gzip members
// from src into out, per spec §6: "multi-member streams are recognized by
// the decompressor: after a valid trailer, if further input remains,
// re-enter the header state."
func (d *Decompressor) GzipDecompress(out, src []byte) (n int, err error) {
	for len(src) > 0 {
		consumed, written, merr := d.gzipMember(out[n:], src)
		if merr != nil {
			return n, merr
		}
		n += written
		src = src[consumed:]
	}
	return n, nil
}

func (d *Decompressor) gzipMember(out, src []byte) (consumed, written int, err error) {
	if len(src) < gzipHdrSize {
		return 0, 0, ErrBadData
	}
	if src[0] != gzipMagic0 || src[1] != gzipMagic1 {
		return 0, 0, fmt.Errorf("%w: bad gzip magic", ErrBadData)
	}
	if src[2] != gzipMethod {
		return 0, 0, fmt.Errorf("%w: unsupported gzip compression method", ErrBadData)
	}
	flg := src[3]
	pos := gzipHdrSize

	if flg&0x04 != 0 { // FEXTRA
		if pos+2 > len(src) {
			return 0, 0, ErrBadData
		}
		xlen := int(binary.LittleEndian.Uint16(src[pos:]))
		pos += 2 + xlen
	}
	if flg&0x08 != 0 { // FNAME
		pos = skipCString(src, pos)
	}
	if flg&0x10 != 0 { // FCOMMENT
		pos = skipCString(src, pos)
	}
	if flg&0x02 != 0 { // FHCRC
		pos += 2
	}
	if pos > len(src) {
		return 0, 0, ErrBadData
	}

	n, bodyConsumed, derr := d.Decompress(out, src[pos:])
	if derr != nil {
		return 0, 0, derr
	}
	pos += bodyConsumed
	if pos+gzipTlrSize > len(src) {
		return 0, 0, ErrBadData
	}
	wantCRC := binary.LittleEndian.Uint32(src[pos:])
	wantSize := binary.LittleEndian.Uint32(src[pos+4:])
	pos += gzipTlrSize

	gotCRC := CRC32(0, out[:n])
	if gotCRC != wantCRC {
		return 0, 0, fmt.Errorf("%w: gzip CRC-32 mismatch", ErrBadData)
	}
	if uint32(n) != wantSize {
		return 0, 0, fmt.Errorf("%w: gzip size mismatch", ErrBadData)
	}
	return pos, n, nil
}

// skipCString advances past a NUL-terminated field (FNAME/FCOMMENT),
// returning len(src) if no terminator is found so the caller's bounds
// check catches the truncated stream.
func skipCString(src []byte, pos int) int {
	for i := pos; i < len(src); i++ {
		if src[i] == 0 {
			return i + 1
		}
	}
	return len(src)
}
