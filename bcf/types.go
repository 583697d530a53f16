package bcf

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ValueType is the 4-bit type code carried by every typed value in a BCF
// record.
type ValueType uint8

const (
	TypeMissing ValueType = 0
	TypeInt8    ValueType = 1
	TypeInt16   ValueType = 2
	TypeInt32   ValueType = 3
	TypeFloat   ValueType = 5
	TypeChar    ValueType = 7
)

func (t ValueType) String() string {
	switch t {
	case TypeMissing:
		return "Missing"
	case TypeInt8:
		return "Int8"
	case TypeInt16:
		return "Int16"
	case TypeInt32:
		return "Int32"
	case TypeFloat:
		return "Float"
	case TypeChar:
		return "Char"

	default:
		return "Illegal selection"
	}
}

// Size is the width in bytes of one value of this type.
func (t ValueType) Size() int {
	switch t {
	case TypeInt8, TypeChar:
		return 1
	case TypeInt16:
		return 2
	case TypeInt32, TypeFloat:
		return 4
	}
	return 0
}

// The lowest few values of each integer width are reserved for the missing
// and end-of-vector sentinels.
const (
	int8Min  = math.MinInt8 + 8
	int16Min = math.MinInt16 + 8
	int32Min = math.MinInt32 + 8
)

// missingFloat is the bit pattern BCF uses for a missing QUAL.
const missingFloat uint32 = 0x7F800001

// smallestIntType returns the narrowest integer type that can hold every
// value in [lo, hi].
func smallestIntType(lo, hi int64) ValueType {
	switch {
	case lo >= int8Min && hi <= math.MaxInt8:
		return TypeInt8
	case lo >= int16Min && hi <= math.MaxInt16:
		return TypeInt16
	}
	return TypeInt32
}

// encoder accumulates a little-endian BCF block.
type encoder struct {
	buf []byte
}

func (e *encoder) reset() {
	e.buf = e.buf[:0]
}

func (e *encoder) int32(v int32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(v))
}

func (e *encoder) uint32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

// descriptor writes the type byte for a vector of n values, spilling the
// length into a following typed int when it does not fit in four bits.
func (e *encoder) descriptor(n int, t ValueType) {
	if n < 15 {
		e.buf = append(e.buf, byte(n)<<4|byte(t))
		return
	}
	e.buf = append(e.buf, 15<<4|byte(t))
	e.typedInt(int64(n))
}

func (e *encoder) typedInt(v int64) {
	t := smallestIntType(v, v)
	e.descriptor(1, t)
	e.intValue(t, v)
}

func (e *encoder) intValue(t ValueType, v int64) {
	switch t {
	case TypeInt8:
		e.buf = append(e.buf, byte(int8(v)))
	case TypeInt16:
		e.buf = binary.LittleEndian.AppendUint16(e.buf, uint16(int16(v)))
	default:
		e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(int32(v)))
	}
}

func (e *encoder) typedString(s string) {
	if s == "" {
		e.descriptor(0, TypeChar)
		return
	}
	e.descriptor(len(s), TypeChar)
	e.buf = append(e.buf, s...)
}

// decoder walks a BCF block that has already been read into memory.
type decoder struct {
	buf []byte
	off int
}

func (d *decoder) need(n int) error {
	if d.off+n > len(d.buf) {
		return fmt.Errorf("truncated block: need %d bytes at offset %d of %d", n, d.off, len(d.buf))
	}
	return nil
}

func (d *decoder) int32() (int32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.LittleEndian.Uint32(d.buf[d.off:]))
	d.off += 4
	return v, nil
}

func (d *decoder) uint32() (uint32, error) {
	v, err := d.int32()
	return uint32(v), err
}

func (d *decoder) descriptor() (int, ValueType, error) {
	if err := d.need(1); err != nil {
		return 0, 0, err
	}
	b := d.buf[d.off]
	d.off++
	n, t := int(b>>4), ValueType(b&0x0F)
	if n == 15 {
		v, err := d.typedInt()
		if err != nil {
			return 0, 0, err
		}
		n = int(v)
	}
	return n, t, nil
}

func (d *decoder) intValue(t ValueType) (int64, error) {
	if err := d.need(t.Size()); err != nil {
		return 0, err
	}
	var v int64
	switch t {
	case TypeInt8:
		v = int64(int8(d.buf[d.off]))
	case TypeInt16:
		v = int64(int16(binary.LittleEndian.Uint16(d.buf[d.off:])))
	case TypeInt32:
		v = int64(int32(binary.LittleEndian.Uint32(d.buf[d.off:])))
	default:
		return 0, fmt.Errorf("type %s is not an integer type", t)
	}
	d.off += t.Size()
	return v, nil
}

func (d *decoder) typedInt() (int64, error) {
	n, t, err := d.descriptor()
	if err != nil {
		return 0, err
	}
	if n != 1 {
		return 0, fmt.Errorf("typed int has %d values; expected 1", n)
	}
	return d.intValue(t)
}

func (d *decoder) typedString() (string, error) {
	n, t, err := d.descriptor()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	if t != TypeChar {
		return "", fmt.Errorf("expected a %s vector, found %s", TypeChar, t)
	}
	if err := d.need(n); err != nil {
		return "", err
	}
	s := string(d.buf[d.off : d.off+n])
	d.off += n
	return s, nil
}

// skip advances past n values of type t.
func (d *decoder) skip(n int, t ValueType) error {
	size := n * t.Size()
	if err := d.need(size); err != nil {
		return err
	}
	d.off += size
	return nil
}

func readUint32(r io.Reader, buffer []byte) (uint32, error) {
	if _, err := io.ReadFull(r, buffer[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buffer[:4]), nil
}
