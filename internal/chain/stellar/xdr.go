package stellar

import "encoding/binary"

// xdrWriter appends big-endian XDR primitives.
type xdrWriter struct {
	buf []byte
}

func (w *xdrWriter) int32(v int32) { w.uint32(uint32(v)) }

func (w *xdrWriter) uint32(v uint32) { w.buf = binary.BigEndian.AppendUint32(w.buf, v) }

func (w *xdrWriter) int64(v int64) { w.uint64(uint64(v)) }

func (w *xdrWriter) uint64(v uint64) { w.buf = binary.BigEndian.AppendUint64(w.buf, v) }

func (w *xdrWriter) fixed(b []byte) {
	w.buf = append(w.buf, b...)
	w.pad(len(b))
}

// opaque writes a length-prefixed, zero-padded byte string.
func (w *xdrWriter) opaque(b []byte) {
	w.uint32(uint32(len(b)))
	w.fixed(b)
}

func (w *xdrWriter) pad(n int) {
	if r := n % 4; r != 0 {
		w.buf = append(w.buf, make([]byte, 4-r)...)
	}
}

func (w *xdrWriter) bytes() []byte { return w.buf }
