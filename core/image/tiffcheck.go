package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// tagInteropIFDPointer links the Exif IFD to the interoperability IFD.
const tagInteropIFDPointer = 0xa005

// typeSizes is the byte size of one value of each TIFF data type.
var typeSizes = map[uint16]uint64{
	1: 1, 2: 1, 3: 2, 4: 4, 5: 8, 6: 1, 7: 1, 8: 2, 9: 4, 10: 8, 11: 4, 12: 8,
}

// checkTIFF walks the directory chain of raw and its Exif, GPS and
// interoperability sub-directories, and rejects any entry whose values
// could not fit in raw. It must run before exif.Decode, which allocates
// from the entry count before reading.
func checkTIFF(raw []byte) error {
	if len(raw) < 8 {
		return errors.New("tiff: header truncated")
	}
	var order binary.ByteOrder
	switch {
	case bytes.HasPrefix(raw, tiffLE):
		order = binary.LittleEndian
	case bytes.HasPrefix(raw, tiffBE):
		order = binary.BigEndian
	default:
		return errors.New("tiff: bad byte-order header")
	}

	pending := []uint32{order.Uint32(raw[4:8])}
	seen := map[uint32]bool{}
	for len(pending) > 0 {
		off := pending[0]
		pending = pending[1:]
		if off == 0 || seen[off] {
			continue
		}
		seen[off] = true
		next, err := checkDir(raw, order, off)
		if err != nil {
			return err
		}
		pending = append(pending, next...)
	}
	return nil
}

// checkDir validates the entries of the directory at off and returns the
// offsets of the directories it links to. A directory that lies outside raw
// is left for the decoder to report.
func checkDir(raw []byte, order binary.ByteOrder, off uint32) ([]uint32, error) {
	size := uint64(len(raw))
	if uint64(off)+2 > size {
		return nil, nil
	}
	n := uint64(order.Uint16(raw[off:]))
	var links []uint32
	for i := uint64(0); i < n; i++ {
		start := uint64(off) + 2 + 12*i
		if start+12 > size {
			return links, nil
		}
		e := raw[start : start+12]
		tag := order.Uint16(e[0:2])
		typ := order.Uint16(e[2:4])
		count := uint64(order.Uint32(e[4:8]))

		unit, ok := typeSizes[typ]
		if !ok {
			unit = 1
		}
		if unit*count > size {
			return nil, fmt.Errorf("tiff: tag 0x%04x claims %d values of type %d in a %d-byte block",
				tag, count, typ, size)
		}
		switch tag {
		case tagExifIFDPointer, tagGPSIFDPointer, tagInteropIFDPointer:
			links = append(links, order.Uint32(e[8:12]))
		}
	}
	if end := uint64(off) + 2 + 12*n; end+4 <= size {
		links = append(links, order.Uint32(raw[end:end+4]))
	}
	return links, nil
}
