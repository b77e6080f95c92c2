package image

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ankit-chaubey/metasift/core"
)

// payload is what locate finds inside a container.
type payload struct {
	format core.FormatID
	exif   []byte // TIFF-structured EXIF block, nil when absent
	xmp    []byte // XMP packet stored beside EXIF, nil when absent
}

var (
	exifHeader = []byte("Exif\x00\x00")
	xmpHeader  = []byte("http://ns.adobe.com/xap/1.0/\x00")

	tiffLE = []byte{0x49, 0x49, 0x2A, 0x00}
	tiffBE = []byte{0x4D, 0x4D, 0x00, 0x2A}
)

const pngXMPKeyword = "XML:com.adobe.xmp"

// maxXMPPacket caps the inflated size of a compressed PNG XMP chunk.
const maxXMPPacket = 16 << 20

// locate finds the EXIF block of data. An error means the container framing
// itself is broken or the bytes are not a recognised container.
func locate(data []byte) (*payload, error) {
	p := &payload{format: core.DetectFormat(data, "")}
	var err error
	switch p.format {
	case core.FmtJPEG:
		err = p.fromJPEG(data)
	case core.FmtPNG:
		err = p.fromPNG(data)
	case core.FmtWebP:
		err = p.fromWebP(data)
	case core.FmtTIFF:
		p.exif = data
	case core.FmtGIF, core.FmtBMP:
		// no EXIF carrier in these formats
	case core.FmtHEIC:
		p.exif = scanEmbeddedEXIF(data)
	default:
		if p.exif = scanEmbeddedEXIF(data); p.exif == nil {
			err = errors.New("unrecognised image container")
		}
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ─── JPEG ────────────────────────────────────────────────────────────────────

type jpegSegment struct {
	marker byte
	data   []byte
}

func (p *payload) fromJPEG(data []byte) error {
	segs, err := jpegSegments(data)
	if err != nil {
		return err
	}
	for _, s := range segs {
		if s.marker != 0xE1 {
			continue
		}
		switch {
		case p.exif == nil && bytes.HasPrefix(s.data, exifHeader):
			p.exif = s.data[len(exifHeader):]
		case p.xmp == nil && bytes.HasPrefix(s.data, xmpHeader):
			p.xmp = s.data[len(xmpHeader):]
		}
	}
	return nil
}

// jpegSegments returns the marker segments up to the start of scan.
func jpegSegments(data []byte) ([]jpegSegment, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil, errors.New("jpeg: missing SOI marker")
	}
	var segs []jpegSegment
	i := 2
	for i < len(data) {
		if data[i] != 0xFF {
			return nil, fmt.Errorf("jpeg: expected marker at offset %d", i)
		}
		// Skip fill bytes
		for i < len(data) && data[i] == 0xFF {
			i++
		}
		if i >= len(data) {
			break
		}
		marker := data[i]
		i++
		// Standalone markers carry no length
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			continue
		}
		if marker == 0xD9 {
			break
		}
		if i+2 > len(data) {
			return nil, errors.New("jpeg: truncated segment length")
		}
		segLen := int(binary.BigEndian.Uint16(data[i:i+2])) - 2
		if segLen < 0 || i+2+segLen > len(data) {
			return nil, fmt.Errorf("jpeg: segment 0x%02X overruns data", marker)
		}
		segs = append(segs, jpegSegment{marker: marker, data: data[i+2 : i+2+segLen]})
		i += 2 + segLen
		// Stop at SOS (start of scan)
		if marker == 0xDA {
			break
		}
	}
	return segs, nil
}

// ─── PNG ─────────────────────────────────────────────────────────────────────

type pngChunk struct {
	typ  string
	data []byte
}

func (p *payload) fromPNG(data []byte) error {
	chunks, err := readPNGChunks(data)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		switch c.typ {
		case "eXIf":
			if p.exif == nil {
				p.exif = bytes.TrimPrefix(c.data, exifHeader)
			}
		case "iTXt":
			if p.xmp == nil {
				if text, ok := pngITXt(c.data, pngXMPKeyword); ok {
					p.xmp = text
				}
			}
		}
	}
	return nil
}

func readPNGChunks(data []byte) ([]pngChunk, error) {
	expected := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	if !bytes.HasPrefix(data, expected) {
		return nil, fmt.Errorf("not a valid PNG")
	}

	var chunks []pngChunk
	r := bytes.NewReader(data[len(expected):])
	hdr := make([]byte, 8)
	for {
		if _, err := io.ReadFull(r, hdr); err != nil {
			break
		}
		length := binary.BigEndian.Uint32(hdr[0:4])
		typ := string(hdr[4:8])
		if int64(length) > int64(r.Len()) {
			return nil, fmt.Errorf("png: chunk %q truncated", typ)
		}
		chunkData := make([]byte, length)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return nil, fmt.Errorf("png: chunk %q truncated", typ)
		}
		chunks = append(chunks, pngChunk{typ: typ, data: chunkData})

		crc := make([]byte, 4)
		if _, err := io.ReadFull(r, crc); err != nil || typ == "IEND" {
			break
		}
	}
	return chunks, nil
}

// pngITXt returns the text of an iTXt chunk with the given keyword.
// Format: keyword\0 compression_flag compression_method language\0 translated_keyword\0 text
func pngITXt(data []byte, keyword string) ([]byte, bool) {
	null := bytes.IndexByte(data, 0)
	if null < 0 || string(data[:null]) != keyword || null+3 > len(data) {
		return nil, false
	}
	compressed := data[null+1] == 1
	rest := data[null+3:]
	for i := 0; i < 2; i++ {
		n := bytes.IndexByte(rest, 0)
		if n < 0 {
			return nil, false
		}
		rest = rest[n+1:]
	}
	if !compressed {
		return rest, true
	}
	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, false
	}
	defer zr.Close()
	text, err := io.ReadAll(io.LimitReader(zr, maxXMPPacket+1))
	if err != nil || len(text) > maxXMPPacket {
		return nil, false
	}
	return text, true
}

// ─── WebP ────────────────────────────────────────────────────────────────────

func (p *payload) fromWebP(data []byte) error {
	if len(data) < 12 {
		return errors.New("webp: file too short")
	}

	// Parse RIFF chunks
	offset := 12 // skip RIFF header
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		offset += 8
		if chunkSize < 0 || offset+chunkSize > len(data) {
			return fmt.Errorf("webp: chunk %q overruns data", chunkID)
		}
		chunkData := data[offset : offset+chunkSize]

		switch chunkID {
		case "EXIF":
			p.exif = bytes.TrimPrefix(chunkData, exifHeader)
		case "XMP ":
			p.xmp = chunkData
		}

		offset += chunkSize
		if chunkSize%2 != 0 {
			offset++ // padding
		}
	}
	return nil
}

// ─── Embedded ────────────────────────────────────────────────────────────────

// scanEmbeddedEXIF looks for an "Exif\0\0" header directly followed by a
// TIFF header, as stored in HEIF item data.
func scanEmbeddedEXIF(data []byte) []byte {
	for off := 0; off < len(data); {
		i := bytes.Index(data[off:], exifHeader)
		if i < 0 {
			return nil
		}
		start := off + i + len(exifHeader)
		rest := data[start:]
		if bytes.HasPrefix(rest, tiffLE) || bytes.HasPrefix(rest, tiffBE) {
			return rest
		}
		off = start
	}
	return nil
}
