package image

import (
	"encoding/binary"
	"reflect"
	"runtime"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ankit-chaubey/metasift/core"
	"github.com/ankit-chaubey/metasift/internal/fixture"
)

const samplePacket = `<x:xmpmeta xmlns:x="adobe:ns:meta/"/>`

func cameraTIFF() fixture.TIFF {
	return fixture.TIFF{
		IFD0: []fixture.Entry{
			fixture.Long(0x0100, 4000),
			fixture.Long(0x0101, 3000),
			fixture.ASCII(0x010e, "Harbour at dusk"),
			fixture.ASCII(0x010f, "Canon"),
			fixture.ASCII(0x0110, "EOS R5"),
			fixture.Rational(0x011a, 300, 1),
			fixture.Rational(0x011b, 300, 1),
			fixture.Short(0x0128, 2),
			fixture.Bytes(0x02bc, []byte(samplePacket)),
			fixture.ASCII(0x8298, "Jane Doe"),
			fixture.Undefined(0x83bb, []byte("\x1c\x02\x05\x00\x04Test")),
		},
		Exif: []fixture.Entry{
			fixture.Short(0x9209, 0x19),
			fixture.Short(0x9214, 2000, 1500, 400, 300),
		},
		GPS: []fixture.Entry{
			fixture.ASCII(0x0001, "N"),
			fixture.Rational(0x0002, 37, 1, 46, 1, 2964, 100),
			fixture.ASCII(0x0003, "W"),
			fixture.Rational(0x0004, 122, 1, 25, 1, 984, 100),
		},
	}
}

func extract(t *testing.T, data []byte, opts Options) *core.Draft {
	t.Helper()
	d := &core.Draft{}
	if err := Extract(data, d, zerolog.Nop(), opts); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return d
}

func TestExtractTIFF(t *testing.T) {
	d := extract(t, cameraTIFF().Bytes(), Options{})

	want := map[string][2]string{
		"Width":       {d.Width, "4000 pixels"},
		"Height":      {d.Height, "3000 pixels"},
		"Description": {d.Description, "Harbour at dusk"},
		"Make":        {d.Make, "Canon"},
		"Model":       {d.Model, "EOS R5"},
		"XResolution": {d.Resolution.X, "300 pixels per inch"},
		"YResolution": {d.Resolution.Y, "300 pixels per inch"},
		"Copyright":   {d.Copyright, "Jane Doe"},
		"Flash":       {d.FlashFound, "fired, auto"},
		"XMP":         {d.XMP, samplePacket},
		"IPTC":        {d.IPTC, "\x1c\x02\x05\x00\x04Test"},
		"Latitude":    {d.GPS.Latitude, "37 deg 46 min 29.64 sec N"},
		"Longitude":   {d.GPS.Longitude, "122 deg 25 min 9.84 sec W"},
	}
	for field, c := range want {
		if c[0] != c[1] {
			t.Errorf("%s = %q, want %q", field, c[0], c[1])
		}
	}
	if got := d.SubjectArea; got != core.Rectangle("2000", "1500", "400", "300") {
		t.Errorf("SubjectArea = %+v", got)
	}
	if d.Title != "" || d.Author != "" {
		t.Errorf("EXIF path must not set title/author, got %q/%q", d.Title, d.Author)
	}
}

func TestExtractLaterDirectoryWins(t *testing.T) {
	tf := cameraTIFF()
	tf.Exif = append(tf.Exif, fixture.Long(0xa002, 6000), fixture.Long(0xa003, 4500))
	d := extract(t, tf.Bytes(), Options{})
	if d.Width != "6000 pixels" || d.Height != "4500 pixels" {
		t.Errorf("dimensions = %q x %q, want Exif IFD values", d.Width, d.Height)
	}
}

func TestResolutionUnit(t *testing.T) {
	tests := []struct {
		name  string
		entry []fixture.Entry
		want  string
	}{
		{"absent defaults to inch", nil, "72 pixels per inch"},
		{"centimetre", []fixture.Entry{fixture.Short(0x0128, 3)}, "72 pixels per cm"},
		{"no absolute unit", []fixture.Entry{fixture.Short(0x0128, 1)}, "72 pixels (no absolute unit)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf := fixture.TIFF{IFD0: append([]fixture.Entry{
				fixture.Rational(0x011a, 72, 1),
				fixture.Rational(0x011b, 144, 2),
			}, tt.entry...)}
			d := extract(t, tf.Bytes(), Options{})
			if d.Resolution.X != tt.want || d.Resolution.Y != tt.want {
				t.Errorf("resolution = %+v, want %q", d.Resolution, tt.want)
			}
		})
	}
}

func TestSubjectAreaShapes(t *testing.T) {
	tests := []struct {
		name  string
		entry fixture.Entry
		want  core.SubjectArea
	}{
		{"circle", fixture.Short(0x9214, 10, 20, 5), core.Circle("10", "20", "5")},
		{"point", fixture.Short(0x9214, 10, 20), core.Point("10", "20")},
		{"subject location", fixture.Short(0xa214, 7, 8), core.Point("7", "8")},
		{"too few values", fixture.Short(0x9214, 10), core.SubjectArea{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf := fixture.TIFF{
				IFD0: []fixture.Entry{fixture.ASCII(0x010f, "Nikon")},
				Exif: []fixture.Entry{tt.entry},
			}
			d := extract(t, tf.Bytes(), Options{})
			if d.SubjectArea != tt.want {
				t.Errorf("SubjectArea = %+v, want %+v", d.SubjectArea, tt.want)
			}
			if d.Make != "Nikon" {
				t.Errorf("Make = %q; a subject area miss must not affect other fields", d.Make)
			}
		})
	}
}

func TestPayloadMisses(t *testing.T) {
	tf := fixture.TIFF{IFD0: []fixture.Entry{
		fixture.ASCII(0x010f, "Sony"),
		fixture.Bytes(0x02bc, []byte{0xff, 0xfe, 0x00, 0x3c}),
		fixture.ASCII(0x83bb, "wrong type"),
	}}
	d := extract(t, tf.Bytes(), Options{})
	if d.XMP != "" {
		t.Errorf("XMP = %q, want miss for invalid UTF-8", d.XMP)
	}
	if d.IPTC != "" {
		t.Errorf("IPTC = %q, want miss for ASCII type", d.IPTC)
	}
	if d.Make != "Sony" {
		t.Errorf("Make = %q", d.Make)
	}
}

func TestContainers(t *testing.T) {
	exif := fixture.TIFF{IFD0: []fixture.Entry{fixture.ASCII(0x010f, "Fujifilm")}}.Bytes()
	packet := []byte(samplePacket)

	tests := []struct {
		name string
		data []byte
	}{
		{"jpeg", fixture.JPEG(exif, packet)},
		{"png", fixture.PNG(exif, packet)},
		{"webp", fixture.WebP(exif, packet)},
		{"heif", append([]byte("\x00\x00\x00\x18ftypheic\x00\x00\x00\x00mif1heic....Exif\x00\x00"), exif...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := extract(t, tt.data, Options{EmbeddedXMP: true})
			if d.Make != "Fujifilm" {
				t.Errorf("Make = %q", d.Make)
			}
			if tt.name != "heif" && d.XMP != samplePacket {
				t.Errorf("XMP = %q, want embedded packet", d.XMP)
			}
		})
	}
}

func TestEmbeddedXMPFallback(t *testing.T) {
	data := fixture.JPEG(nil, []byte(samplePacket))
	if d := extract(t, data, Options{EmbeddedXMP: false}); d.XMP != "" {
		t.Errorf("XMP = %q with fallback disabled", d.XMP)
	}

	tagged := fixture.TIFF{IFD0: []fixture.Entry{fixture.Bytes(0x02bc, []byte("<tag/>"))}}.Bytes()
	data = fixture.JPEG(tagged, []byte(samplePacket))
	if d := extract(t, data, Options{EmbeddedXMP: true}); d.XMP != "<tag/>" {
		t.Errorf("XMP = %q, tag 700 should take precedence", d.XMP)
	}
}

func TestNoEXIF(t *testing.T) {
	tests := map[string][]byte{
		"jpeg": fixture.JPEG(nil, nil),
		"png":  fixture.PNG(nil, nil),
		"gif":  []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			d := extract(t, data, Options{})
			if !reflect.DeepEqual(*d, core.Draft{}) {
				t.Errorf("draft = %+v, want empty", d)
			}
		})
	}
}

func TestCorruptInput(t *testing.T) {
	jpeg := fixture.JPEG(fixture.TIFF{IFD0: []fixture.Entry{fixture.ASCII(0x010f, "Canon")}}.Bytes(), nil)
	tests := map[string][]byte{
		"not an image":   []byte("this is plainly not an image"),
		"empty":          nil,
		"truncated jpeg": jpeg[:20],
		"bad exif block": fixture.JPEG([]byte("garbage that is not tiff"), nil),
		"bad png chunk":  fixture.PNG(nil, nil)[:20],
		"huge png chunk": pngHeaderClaiming(0xFFFFFFFF),
		"huge long count": fixture.TIFF{IFD0: []fixture.Entry{
			{Tag: 0x0100, Type: fixture.TypeLong, Count: 0x40000000, Data: []byte{1, 0, 0, 0}},
		}}.Bytes(),
		"huge ascii count": fixture.JPEG(fixture.TIFF{IFD0: []fixture.Entry{
			{Tag: 0x010f, Type: fixture.TypeASCII, Count: 0x7FFFFFF0, Data: []byte("Canon\x00")},
		}}.Bytes(), nil),
		"huge count in exif ifd": fixture.TIFF{
			IFD0: []fixture.Entry{fixture.ASCII(0x010f, "Canon")},
			Exif: []fixture.Entry{{Tag: 0x9214, Type: fixture.TypeShort, Count: 0xFFFFFFFF, Data: []byte{1, 0, 2, 0}}},
		}.Bytes(),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			err := Extract(data, &core.Draft{}, zerolog.Nop(), Options{})
			if !core.IsContainerParseError(err) {
				t.Errorf("err = %v, want ContainerParseError", err)
			}
		})
	}
}

// pngHeaderClaiming returns a PNG signature followed by a single chunk
// header announcing length bytes of data that are not there.
func pngHeaderClaiming(length uint32) []byte {
	b := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	b = binary.BigEndian.AppendUint32(b, length)
	return append(b, "tEXt"...)
}

func TestOversizedChunkAllocatesLittle(t *testing.T) {
	inputs := map[string][]byte{
		"png chunk": pngHeaderClaiming(0x7FFFFFF0),
		"tiff count": fixture.TIFF{IFD0: []fixture.Entry{
			{Tag: 0x0101, Type: fixture.TypeRational, Count: 0x20000000, Data: []byte{1, 0, 0, 0}},
		}}.Bytes(),
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			err := Extract(data, &core.Draft{}, zerolog.Nop(), Options{})
			runtime.ReadMemStats(&after)

			if !core.IsContainerParseError(err) {
				t.Errorf("err = %v, want ContainerParseError", err)
			}
			if grew := after.TotalAlloc - before.TotalAlloc; grew > 8<<20 {
				t.Errorf("allocated %d bytes for a %d-byte input", grew, len(data))
			}
		})
	}
}

func TestCheckTIFF(t *testing.T) {
	if err := checkTIFF(cameraTIFF().Bytes()); err != nil {
		t.Errorf("valid block rejected: %v", err)
	}

	// IFD0 whose next-directory pointer leads back to itself.
	looped := fixture.TIFF{IFD0: []fixture.Entry{fixture.Short(0x0128, 2)}}.Bytes()
	binary.LittleEndian.PutUint32(looped[8+2+12:], 8)
	if err := checkTIFF(looped); err != nil {
		t.Errorf("self-linked directory: %v", err)
	}

	for name, raw := range map[string][]byte{
		"short":      []byte("II*\x00"),
		"bad header": []byte("XX*\x00\x08\x00\x00\x00"),
	} {
		if err := checkTIFF(raw); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestDescribeFlash(t *testing.T) {
	tests := []struct {
		v    int
		want string
	}{
		{0x00, "not fired"},
		{0x01, "fired"},
		{0x07, "fired, return light detected"},
		{0x10, "not fired, suppressed"},
		{0x19, "fired, auto"},
		{0x20, "no flash function"},
		{0x41, "fired, red-eye reduction"},
	}
	for _, tt := range tests {
		if got := describeFlash(tt.v); got != tt.want {
			t.Errorf("describeFlash(%#x) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestEscape(t *testing.T) {
	if got := escape([]byte("Caf\xc3\xa9")); got != "Café" {
		t.Errorf("escape(valid) = %q", got)
	}
	if got := escape([]byte{'a', 0xff, 'b'}); got != `a\xffb` {
		t.Errorf("escape(invalid) = %q", got)
	}
}

func TestMultiPartCopyright(t *testing.T) {
	tf := fixture.TIFF{IFD0: []fixture.Entry{fixture.ASCII(0x8298, "Jane Doe\x00Acme Editing")}}
	d := extract(t, tf.Bytes(), Options{})
	if d.Copyright != "Jane Doe, Acme Editing" {
		t.Errorf("Copyright = %q", d.Copyright)
	}
}
