package core

import (
	"bytes"
	"path/filepath"
	"strings"
)

// ──────────────────────────────────────────────────────────────────────────────
// Extraction path
// ──────────────────────────────────────────────────────────────────────────────

// Path selects which extractor reads a buffer.
type Path int

const (
	PathEXIF Path = iota // binary EXIF tag table inside an image container
	PathPDF              // PDF trailer Info dictionary and metadata stream
)

func (p Path) String() string {
	if p == PathPDF {
		return "PDF"
	}
	return "EXIF"
}

// MIME types routed to the PDF path. Everything else reads EXIF.
const (
	MIMEPDF        = "application/pdf"
	MIMEPostScript = "application/postscript"
)

// ClassifyMIME picks the extraction path for a declared MIME type. The
// comparison is literal; the buffer itself is not inspected.
func ClassifyMIME(mimeType string) Path {
	switch mimeType {
	case MIMEPDF, MIMEPostScript:
		return PathPDF
	default:
		return PathEXIF
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Format sniffing
// ──────────────────────────────────────────────────────────────────────────────

// FormatID enumerates every recognised container.
type FormatID string

const (
	FmtJPEG FormatID = "jpeg"
	FmtPNG  FormatID = "png"
	FmtGIF  FormatID = "gif"
	FmtWebP FormatID = "webp"
	FmtTIFF FormatID = "tiff"
	FmtBMP  FormatID = "bmp"
	FmtHEIC FormatID = "heic"

	FmtPDF        FormatID = "pdf"
	FmtPostScript FormatID = "postscript"

	FmtUnknown FormatID = "unknown"
)

// extMap maps lowercase extensions to format IDs.
var extMap = map[string]FormatID{
	".jpg":  FmtJPEG,
	".jpeg": FmtJPEG,
	".png":  FmtPNG,
	".gif":  FmtGIF,
	".webp": FmtWebP,
	".tiff": FmtTIFF,
	".tif":  FmtTIFF,
	".dng":  FmtTIFF,
	".bmp":  FmtBMP,
	".heic": FmtHEIC,
	".heif": FmtHEIC,
	".pdf":  FmtPDF,
	".ps":   FmtPostScript,
	".eps":  FmtPostScript,
	".ai":   FmtPDF,
}

var mimeMap = map[FormatID]string{
	FmtJPEG:       "image/jpeg",
	FmtPNG:        "image/png",
	FmtGIF:        "image/gif",
	FmtWebP:       "image/webp",
	FmtTIFF:       "image/tiff",
	FmtBMP:        "image/bmp",
	FmtHEIC:       "image/heic",
	FmtPDF:        MIMEPDF,
	FmtPostScript: MIMEPostScript,
}

// DetectFormat returns the FormatID for buf by its magic bytes, falling back
// to the extension of name when the bytes are not recognised.
func DetectFormat(buf []byte, name string) FormatID {
	if id := detectMagic(buf); id != FmtUnknown {
		return id
	}
	if id, ok := extMap[strings.ToLower(filepath.Ext(name))]; ok {
		return id
	}
	return FmtUnknown
}

// MIMEFor returns the MIME type for a format, or "application/octet-stream".
func MIMEFor(id FormatID) string {
	if m, ok := mimeMap[id]; ok {
		return m
	}
	return "application/octet-stream"
}

// MediaTypeFor returns the broad media category for a format.
func MediaTypeFor(id FormatID) string {
	switch id {
	case FmtJPEG, FmtPNG, FmtGIF, FmtWebP, FmtTIFF, FmtBMP, FmtHEIC:
		return "image"
	case FmtPDF, FmtPostScript:
		return "document"
	default:
		return "unknown"
	}
}

func detectMagic(b []byte) FormatID {
	if len(b) < 4 {
		return FmtUnknown
	}
	switch {
	// JPEG: FF D8 FF
	case b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF:
		return FmtJPEG
	// PNG: 89 50 4E 47 0D 0A 1A 0A
	case bytes.HasPrefix(b, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}):
		return FmtPNG
	// GIF: GIF87a or GIF89a
	case bytes.HasPrefix(b, []byte("GIF87a")) || bytes.HasPrefix(b, []byte("GIF89a")):
		return FmtGIF
	// WebP: RIFF????WEBP
	case len(b) >= 12 && bytes.Equal(b[0:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP")):
		return FmtWebP
	// TIFF: 49 49 2A 00 (little-endian) or 4D 4D 00 2A (big-endian)
	case bytes.HasPrefix(b, []byte{0x49, 0x49, 0x2A, 0x00}) ||
		bytes.HasPrefix(b, []byte{0x4D, 0x4D, 0x00, 0x2A}):
		return FmtTIFF
	// BMP: 42 4D
	case b[0] == 0x42 && b[1] == 0x4D:
		return FmtBMP
	// HEIF: ftyp box with a heic/heix/mif1 brand
	case len(b) >= 12 && bytes.Equal(b[4:8], []byte("ftyp")):
		switch string(b[8:12]) {
		case "heic", "heix", "hevc", "mif1", "msf1", "avif":
			return FmtHEIC
		}
	// PDF: %PDF
	case bytes.HasPrefix(b, []byte("%PDF")):
		return FmtPDF
	// PostScript: %!PS, or the DOS EPS binary header C5 D0 D3 C6
	case bytes.HasPrefix(b, []byte("%!PS")) || bytes.HasPrefix(b, []byte{0xC5, 0xD0, 0xD3, 0xC6}):
		return FmtPostScript
	}
	return FmtUnknown
}
