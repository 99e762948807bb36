package engine

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrShortBuffer is returned when a state stream ends before a read completes.
var ErrShortBuffer = errors.New("engine: state stream too short")

// WriteBuffer accumulates a fixed-layout little-endian state stream.
type WriteBuffer struct {
	data []byte
}

// NewWriteBuffer creates an empty stream.
func NewWriteBuffer() *WriteBuffer {
	return &WriteBuffer{data: make([]byte, 0, 4096)}
}

// Bytes returns the encoded stream.
func (b *WriteBuffer) Bytes() []byte {
	return b.data
}

// WriteInt writes a signed integer as 32 bits.
func (b *WriteBuffer) WriteInt(v int) {
	b.data = binary.LittleEndian.AppendUint32(b.data, uint32(int32(v))) //#nosec G115 -- fixed-width encoding
}

// WriteUint64 writes an unsigned 64-bit word.
func (b *WriteBuffer) WriteUint64(v uint64) {
	b.data = binary.LittleEndian.AppendUint64(b.data, v)
}

// WriteFloat writes the exact bit pattern of v.
func (b *WriteBuffer) WriteFloat(v float64) {
	b.WriteUint64(math.Float64bits(v))
}

// WriteBool writes one byte.
func (b *WriteBuffer) WriteBool(v bool) {
	if v {
		b.data = append(b.data, 1)
	} else {
		b.data = append(b.data, 0)
	}
}

// WriteByte writes a raw byte.
func (b *WriteBuffer) WriteByte(v byte) error {
	b.data = append(b.data, v)
	return nil
}

// ReadBuffer decodes a stream produced by WriteBuffer. The first failed read
// sticks: later reads return zero values and Err reports the failure.
type ReadBuffer struct {
	data []byte
	pos  int
	err  error
}

// NewReadBuffer wraps an encoded stream.
func NewReadBuffer(data []byte) *ReadBuffer {
	return &ReadBuffer{data: data}
}

// Err returns the first decoding error, if any.
func (b *ReadBuffer) Err() error {
	return b.err
}

// Remaining returns the number of unread bytes.
func (b *ReadBuffer) Remaining() int {
	return len(b.data) - b.pos
}

func (b *ReadBuffer) take(n int) []byte {
	if b.err != nil {
		return nil
	}
	if b.Remaining() < n {
		b.err = ErrShortBuffer
		return nil
	}
	p := b.data[b.pos : b.pos+n]
	b.pos += n
	return p
}

// ReadInt reads a value written by WriteInt.
func (b *ReadBuffer) ReadInt() int {
	p := b.take(4)
	if p == nil {
		return 0
	}
	return int(int32(binary.LittleEndian.Uint32(p))) //#nosec G115 -- fixed-width decoding
}

// ReadUint64 reads a value written by WriteUint64.
func (b *ReadBuffer) ReadUint64() uint64 {
	p := b.take(8)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(p)
}

// ReadFloat reads a value written by WriteFloat.
func (b *ReadBuffer) ReadFloat() float64 {
	return math.Float64frombits(b.ReadUint64())
}

// ReadBool reads a value written by WriteBool.
func (b *ReadBuffer) ReadBool() bool {
	p := b.take(1)
	return p != nil && p[0] != 0
}

// ReadByte reads a raw byte.
func (b *ReadBuffer) ReadByte() (byte, error) {
	p := b.take(1)
	if p == nil {
		return 0, b.err
	}
	return p[0], nil
}
