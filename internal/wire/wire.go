package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"time"
)

const (
	version   byte = 1
	kindEntry byte = 1
	hdrLen         = 4 + 1 + 1 + 8 + 4
)

var (
	ErrCorrupt = errors.New("flightcache: corrupt entry")
	magic4     = [...]byte{'F', 'L', 'T', 'C'}

	// range representable as int64 unix nanos (years 1677..2262)
	maxExp = time.Unix(0, math.MaxInt64)
	minExp = time.Unix(0, math.MinInt64)
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry: magic(4) | ver(1) | kind(1=entry) | exp(i64 be, unix nanos, 0=none) | vlen(u32 be) | payload(vlen)
func EncodeEntry(exp time.Time, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(hdrLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindEntry)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], uint64(expNanos(exp)))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeEntry returns the expiration and a payload slice aliasing b.
// Trailing bytes after the payload are rejected.
func DecodeEntry(b []byte) (exp time.Time, payload []byte, err error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version || b[5] != kindEntry {
		return time.Time{}, nil, ErrCorrupt
	}

	off := 6

	ns := int64(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off {
		return time.Time{}, nil, ErrCorrupt
	}

	if ns != 0 {
		exp = time.Unix(0, ns)
	}
	return exp, b[off : off+vlen], nil
}

// PeekExpiration reads only the expiration of an encoded entry.
func PeekExpiration(b []byte) (time.Time, error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version || b[5] != kindEntry {
		return time.Time{}, ErrCorrupt
	}
	ns := int64(binary.BigEndian.Uint64(b[6:14]))
	if ns == 0 {
		return time.Time{}, nil
	}
	return time.Unix(0, ns), nil
}

// expNanos clamps expirations outside the int64 nanosecond range; a far
// future expiry reads back as maxExp, which is still in the future.
func expNanos(t time.Time) int64 {
	switch {
	case t.IsZero():
		return 0
	case t.After(maxExp):
		return math.MaxInt64
	case t.Before(minExp):
		return math.MinInt64
	}
	ns := t.UnixNano()
	if ns == 0 {
		// the epoch itself would read back as "no expiry"
		return 1
	}
	return ns
}
