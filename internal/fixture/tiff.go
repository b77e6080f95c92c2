// Package fixture builds small, valid container files in memory for tests.
package fixture

import (
	"encoding/binary"
	"sort"
)

// TIFF data types.
const (
	TypeByte      = 1
	TypeASCII     = 2
	TypeShort     = 3
	TypeLong      = 4
	TypeRational  = 5
	TypeUndefined = 7
)

// Entry is one little-endian IFD entry.
type Entry struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Data  []byte
}

var le = binary.LittleEndian

// Short returns a SHORT entry.
func Short(tag uint16, vals ...uint16) Entry {
	b := make([]byte, 2*len(vals))
	for i, v := range vals {
		le.PutUint16(b[2*i:], v)
	}
	return Entry{Tag: tag, Type: TypeShort, Count: uint32(len(vals)), Data: b}
}

// Long returns a LONG entry.
func Long(tag uint16, vals ...uint32) Entry {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		le.PutUint32(b[4*i:], v)
	}
	return Entry{Tag: tag, Type: TypeLong, Count: uint32(len(vals)), Data: b}
}

// Rational returns a RATIONAL entry from numerator/denominator pairs.
func Rational(tag uint16, pairs ...uint32) Entry {
	b := make([]byte, 4*len(pairs))
	for i, v := range pairs {
		le.PutUint32(b[4*i:], v)
	}
	return Entry{Tag: tag, Type: TypeRational, Count: uint32(len(pairs) / 2), Data: b}
}

// ASCII returns a NUL-terminated ASCII entry.
func ASCII(tag uint16, s string) Entry {
	b := append([]byte(s), 0)
	return Entry{Tag: tag, Type: TypeASCII, Count: uint32(len(b)), Data: b}
}

// Bytes returns a BYTE entry.
func Bytes(tag uint16, b []byte) Entry {
	return Entry{Tag: tag, Type: TypeByte, Count: uint32(len(b)), Data: b}
}

// Undefined returns an UNDEFINED entry.
func Undefined(tag uint16, b []byte) Entry {
	return Entry{Tag: tag, Type: TypeUndefined, Count: uint32(len(b)), Data: b}
}

// TIFF describes an EXIF block: IFD0 plus optional Exif and GPS
// sub-directories. The pointer tags are added by Bytes.
type TIFF struct {
	IFD0 []Entry
	Exif []Entry
	GPS  []Entry
}

const (
	tagExifPointer = 0x8769
	tagGPSPointer  = 0x8825
)

// Bytes encodes the block as little-endian TIFF.
func (t TIFF) Bytes() []byte {
	ifd0 := append([]Entry(nil), t.IFD0...)
	if len(t.Exif) > 0 {
		ifd0 = append(ifd0, Long(tagExifPointer, 0))
	}
	if len(t.GPS) > 0 {
		ifd0 = append(ifd0, Long(tagGPSPointer, 0))
	}
	exif := sorted(t.Exif)
	gps := sorted(t.GPS)
	ifd0 = sorted(ifd0)

	off0 := 8
	exifOff := off0 + dirSize(ifd0)
	gpsOff := exifOff
	if len(exif) > 0 {
		gpsOff += dirSize(exif)
	}
	for i := range ifd0 {
		switch ifd0[i].Tag {
		case tagExifPointer:
			ifd0[i] = Long(tagExifPointer, uint32(exifOff))
		case tagGPSPointer:
			ifd0[i] = Long(tagGPSPointer, uint32(gpsOff))
		}
	}

	buf := []byte{'I', 'I', 0x2A, 0x00, 8, 0, 0, 0}
	buf = writeDir(buf, ifd0)
	if len(exif) > 0 {
		buf = writeDir(buf, exif)
	}
	if len(gps) > 0 {
		buf = writeDir(buf, gps)
	}
	return buf
}

func sorted(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

func padded(n int) int { return n + n%2 }

func dirSize(entries []Entry) int {
	n := 2 + 12*len(entries) + 4
	for _, e := range entries {
		if len(e.Data) > 4 {
			n += padded(len(e.Data))
		}
	}
	return n
}

func writeDir(buf []byte, entries []Entry) []byte {
	dataOff := len(buf) + 2 + 12*len(entries) + 4
	buf = le.AppendUint16(buf, uint16(len(entries)))
	var data []byte
	for _, e := range entries {
		buf = le.AppendUint16(buf, e.Tag)
		buf = le.AppendUint16(buf, e.Type)
		buf = le.AppendUint32(buf, e.Count)
		if len(e.Data) <= 4 {
			v := make([]byte, 4)
			copy(v, e.Data)
			buf = append(buf, v...)
			continue
		}
		buf = le.AppendUint32(buf, uint32(dataOff+len(data)))
		data = append(data, e.Data...)
		if len(e.Data)%2 != 0 {
			data = append(data, 0)
		}
	}
	buf = le.AppendUint32(buf, 0) // no next IFD
	return append(buf, data...)
}
