package image

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rwcarlsen/goexif/tiff"
)

// unit is the suffix or interpretation added to a displayed value.
type unit int

const (
	unitNone unit = iota
	unitPixels
	unitResolution // " pixels per <ResolutionUnit>"
	unitFlash      // bit field rendered as text
	unitLatitude   // degrees/minutes/seconds plus GPSLatitudeRef
	unitLongitude  // degrees/minutes/seconds plus GPSLongitudeRef
)

// Tags that only qualify other tags.
var (
	keyResolutionUnit  = tagKey{ifdPrimary, 0x0128}
	keyGPSLatitudeRef  = tagKey{ifdGPS, 0x0001}
	keyGPSLongitudeRef = tagKey{ifdGPS, 0x0003}
)

// renderer turns tag values into display strings. It holds the tags that
// qualify others, such as ResolutionUnit for XResolution.
type renderer struct {
	context map[tagKey]*tiff.Tag
}

func newRenderer(dirs []ifd) *renderer {
	r := &renderer{context: map[tagKey]*tiff.Tag{}}
	for _, d := range dirs {
		for _, tag := range d.dir.Tags {
			key := tagKey{d.kind, tag.Id}
			switch key {
			case keyResolutionUnit, keyGPSLatitudeRef, keyGPSLongitudeRef:
				r.context[key] = tag
			}
		}
	}
	return r
}

func (r *renderer) display(spec tagSpec, tag *tiff.Tag) (string, error) {
	switch spec.unit {
	case unitPixels:
		v, err := value(tag)
		if err != nil {
			return "", err
		}
		return v + " pixels", nil
	case unitResolution:
		v, err := value(tag)
		if err != nil {
			return "", err
		}
		return v + " " + r.resolutionUnit(), nil
	case unitFlash:
		n, err := tag.Int(0)
		if err != nil {
			return "", err
		}
		return describeFlash(n), nil
	case unitLatitude:
		return r.coordinate(tag, keyGPSLatitudeRef)
	case unitLongitude:
		return r.coordinate(tag, keyGPSLongitudeRef)
	default:
		return value(tag)
	}
}

func (r *renderer) resolutionUnit() string {
	tag, ok := r.context[keyResolutionUnit]
	if !ok {
		return "pixels per inch"
	}
	n, err := tag.Int(0)
	if err != nil {
		return "pixels per inch"
	}
	switch n {
	case 1:
		return "pixels (no absolute unit)"
	case 3:
		return "pixels per cm"
	default:
		return "pixels per inch"
	}
}

// coordinate renders a GPS degrees/minutes/seconds triple, e.g.
// "37 deg 46 min 29.64 sec N".
func (r *renderer) coordinate(tag *tiff.Tag, ref tagKey) (string, error) {
	if tag.Count != 3 {
		return value(tag)
	}
	parts := make([]string, 3)
	for i := range parts {
		s, err := rational(tag, i)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	out := fmt.Sprintf("%s deg %s min %s sec", parts[0], parts[1], parts[2])
	if refTag, ok := r.context[ref]; ok {
		if s, err := ascii(refTag); err == nil && s != "" {
			out += " " + s
		}
	}
	return out, nil
}

// value renders any tag without a unit.
func value(tag *tiff.Tag) (string, error) {
	switch tag.Format() {
	case tiff.StringVal:
		return ascii(tag)
	case tiff.IntVal:
		vals := make([]string, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			n, err := tag.Int64(i)
			if err != nil {
				return "", err
			}
			vals = append(vals, strconv.FormatInt(n, 10))
		}
		return strings.Join(vals, ", "), nil
	case tiff.RatVal:
		vals := make([]string, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			s, err := rational(tag, i)
			if err != nil {
				return "", err
			}
			vals = append(vals, s)
		}
		return strings.Join(vals, ", "), nil
	case tiff.FloatVal:
		vals := make([]string, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			f, err := tag.Float(i)
			if err != nil {
				return "", err
			}
			vals = append(vals, strconv.FormatFloat(f, 'f', -1, 64))
		}
		return strings.Join(vals, ", "), nil
	default:
		return escape(tag.Val), nil
	}
}

// rational renders one rational as a decimal, or as a fraction when the
// denominator is zero.
func rational(tag *tiff.Tag, i int) (string, error) {
	num, den, err := tag.Rat2(i)
	if err != nil {
		return "", err
	}
	if den == 0 {
		return fmt.Sprintf("%d/%d", num, den), nil
	}
	return strconv.FormatFloat(float64(num)/float64(den), 'f', -1, 64), nil
}

// ascii renders an ASCII tag. Some writers pack several NUL-separated
// strings into one value (Copyright holds photographer and editor); the
// non-empty parts are joined with ", ".
func ascii(tag *tiff.Tag) (string, error) {
	var parts []string
	for _, p := range strings.Split(string(tag.Val), "\x00") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, escape([]byte(p)))
		}
	}
	return strings.Join(parts, ", "), nil
}

// escape returns b as text, writing bytes that are not valid UTF-8 as \xNN.
func escape(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&sb, `\x%02x`, b[0])
		} else {
			sb.WriteRune(r)
		}
		b = b[size:]
	}
	return sb.String()
}

// describeFlash decodes the EXIF Flash bit field: bit 0 fired, bits 1-2
// return light, bits 3-4 mode, bit 5 no flash function, bit 6 red-eye.
func describeFlash(v int) string {
	if v&0x20 != 0 {
		return "no flash function"
	}
	var sb strings.Builder
	if v&0x01 != 0 {
		sb.WriteString("fired")
	} else {
		sb.WriteString("not fired")
	}
	switch (v >> 1) & 0x03 {
	case 2:
		sb.WriteString(", return light not detected")
	case 3:
		sb.WriteString(", return light detected")
	}
	switch (v >> 3) & 0x03 {
	case 1:
		sb.WriteString(", forced")
	case 2:
		sb.WriteString(", suppressed")
	case 3:
		sb.WriteString(", auto")
	}
	if v&0x40 != 0 {
		sb.WriteString(", red-eye reduction")
	}
	return sb.String()
}
