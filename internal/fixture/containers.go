package fixture

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
)

// JPEG wraps an EXIF block and an optional XMP packet in a minimal JPEG:
// SOI, APP1 Exif, APP1 XMP, SOS with a few scan bytes, EOI. A nil exif
// omits the EXIF segment.
func JPEG(exif []byte, xmp []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8})
	if exif != nil {
		writeSegment(&buf, 0xE1, append([]byte("Exif\x00\x00"), exif...))
	}
	if xmp != nil {
		writeSegment(&buf, 0xE1, append([]byte("http://ns.adobe.com/xap/1.0/\x00"), xmp...))
	}
	writeSegment(&buf, 0xDA, []byte{0x01, 0x01, 0x00, 0x00, 0x3F, 0x00})
	buf.Write([]byte{0x12, 0x34, 0x56})
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

func writeSegment(buf *bytes.Buffer, marker byte, data []byte) {
	buf.Write([]byte{0xFF, marker})
	binary.Write(buf, binary.BigEndian, uint16(len(data)+2))
	buf.Write(data)
}

// PNG builds a 1x1 PNG carrying an eXIf chunk and an XMP iTXt chunk; nil
// arguments omit the chunk.
func PNG(exif []byte, xmp []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	ihdr := []byte{0, 0, 0, 1, 0, 0, 0, 1, 8, 2, 0, 0, 0}
	writeChunk(&buf, "IHDR", ihdr)
	if exif != nil {
		writeChunk(&buf, "eXIf", exif)
	}
	if xmp != nil {
		itxt := append([]byte("XML:com.adobe.xmp\x00\x00\x00\x00\x00"), xmp...)
		writeChunk(&buf, "iTXt", itxt)
	}
	writeChunk(&buf, "IEND", nil)
	return buf.Bytes()
}

func writeChunk(buf *bytes.Buffer, typ string, data []byte) {
	binary.Write(buf, binary.BigEndian, uint32(len(data)))
	buf.WriteString(typ)
	buf.Write(data)
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	binary.Write(buf, binary.BigEndian, crc.Sum32())
}

// WebP builds an extended WebP with EXIF and XMP chunks; nil arguments
// omit the chunk.
func WebP(exif []byte, xmp []byte) []byte {
	var body bytes.Buffer
	body.WriteString("WEBP")
	writeRIFFChunk(&body, "VP8X", make([]byte, 10))
	if exif != nil {
		writeRIFFChunk(&body, "EXIF", exif)
	}
	if xmp != nil {
		writeRIFFChunk(&body, "XMP ", xmp)
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(body.Len()))
	buf.Write(body.Bytes())
	return buf.Bytes()
}

func writeRIFFChunk(buf *bytes.Buffer, id string, data []byte) {
	buf.WriteString(id)
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	if len(data)%2 != 0 {
		buf.WriteByte(0)
	}
}
