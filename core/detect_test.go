package core

import "testing"

func TestClassifyMIME(t *testing.T) {
	tests := []struct {
		mime string
		want Path
	}{
		{"application/pdf", PathPDF},
		{"application/postscript", PathPDF},
		{"image/jpeg", PathEXIF},
		{"image/png", PathEXIF},
		{"", PathEXIF},
		{"APPLICATION/PDF", PathEXIF},
		{"application/pdf; charset=binary", PathEXIF},
		{"text/plain", PathEXIF},
	}
	for _, tt := range tests {
		if got := ClassifyMIME(tt.mime); got != tt.want {
			t.Errorf("ClassifyMIME(%q) = %v, want %v", tt.mime, got, tt.want)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		file string
		want FormatID
	}{
		{"jpeg magic", []byte{0xFF, 0xD8, 0xFF, 0xE1}, "", FmtJPEG},
		{"png magic", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, "", FmtPNG},
		{"gif magic", []byte("GIF89a\x01\x00"), "", FmtGIF},
		{"webp magic", []byte("RIFF\x10\x00\x00\x00WEBPVP8X"), "", FmtWebP},
		{"tiff little endian", []byte{'I', 'I', 0x2A, 0x00}, "", FmtTIFF},
		{"tiff big endian", []byte{'M', 'M', 0x00, 0x2A}, "", FmtTIFF},
		{"heic brand", []byte("\x00\x00\x00\x18ftypheic"), "", FmtHEIC},
		{"pdf magic", []byte("%PDF-1.7\n"), "", FmtPDF},
		{"postscript magic", []byte("%!PS-Adobe-3.0\n"), "", FmtPostScript},
		{"eps binary header", []byte{0xC5, 0xD0, 0xD3, 0xC6, 0x1E, 0x00, 0x00, 0x00}, "", FmtPostScript},
		{"extension fallback", []byte("????"), "photo.JPG", FmtJPEG},
		{"eps extension", []byte{}, "figure.eps", FmtPostScript},
		{"unknown", []byte("hello world"), "notes.txt", FmtUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.buf, tt.file); got != tt.want {
				t.Errorf("DetectFormat = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMIMEForRoutesDocuments(t *testing.T) {
	if got := ClassifyMIME(MIMEFor(FmtPDF)); got != PathPDF {
		t.Errorf("pdf routed to %v", got)
	}
	if got := ClassifyMIME(MIMEFor(FmtPostScript)); got != PathPDF {
		t.Errorf("postscript routed to %v", got)
	}
	if got := MIMEFor(FmtUnknown); got != "application/octet-stream" {
		t.Errorf("MIMEFor(unknown) = %q", got)
	}
	if got := MediaTypeFor(FmtWebP); got != "image" {
		t.Errorf("MediaTypeFor(webp) = %q", got)
	}
}
