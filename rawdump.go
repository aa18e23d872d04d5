package tboxtiming

import (
	"encoding/binary"
	"fmt"
	"io"
)

// RawDumpWriter emits one line (ASCII mode) or one fixed-size record
// (binary mode) per accepted measurement. ASCII mode is the portable
// default; binary mode trades portability for file size and matches the
// original tool's raw mode when RAW_OUTPUT_ASCII was compiled off.
type RawDumpWriter struct {
	w    io.Writer
	mode RawDumpMode
	// byteOrder matches the host's native byte order, mirroring the
	// original's raw fwrite of a platform uint32_t.
	byteOrder binary.ByteOrder
}

// NewRawDumpWriter wraps w to emit per-measurement records in mode. mode
// must not be RawDumpOff.
func NewRawDumpWriter(w io.Writer, mode RawDumpMode) *RawDumpWriter {
	return &RawDumpWriter{w: w, mode: mode, byteOrder: binary.NativeEndian}
}

// WriteMeasurement records one accepted (plaintext, tick-delta) pair.
func (r *RawDumpWriter) WriteMeasurement(p Block, d Tick) error {
	switch r.mode {
	case RawDumpASCII:
		if _, err := fmt.Fprintf(r.w, "%02x %02x %02x %02x %02x %02x %02x %02x %02x %02x %02x %02x %02x %02x %02x %02x %d\n",
			p[0], p[1], p[2], p[3], p[4], p[5], p[6], p[7], p[8], p[9], p[10], p[11], p[12], p[13], p[14], p[15], d); err != nil {
			return fmt.Errorf("%w: write ascii raw dump record: %v", ErrIO, err)
		}
	case RawDumpBinary:
		if _, err := r.w.Write(p[:]); err != nil {
			return fmt.Errorf("%w: write binary raw dump plaintext: %v", ErrIO, err)
		}
		var buf [4]byte
		r.byteOrder.PutUint32(buf[:], uint32(d))
		if _, err := r.w.Write(buf[:]); err != nil {
			return fmt.Errorf("%w: write binary raw dump tick count: %v", ErrIO, err)
		}
	default:
		return fmt.Errorf("%w: raw dump writer in RawDumpOff mode", ErrConfiguration)
	}
	return nil
}
