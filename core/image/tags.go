package image

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/rwcarlsen/goexif/tiff"

	"github.com/ankit-chaubey/metasift/core"
)

// ifdKind names the directory a tag number belongs to. GPS tag numbers
// overlap the interoperability ones, so a tag is only identified by the pair.
type ifdKind int

const (
	ifdPrimary ifdKind = iota
	ifdExif
	ifdGPS
)

// target is the Draft field a tag feeds.
type target int

const (
	targetWidth target = iota
	targetHeight
	targetResolutionX
	targetResolutionY
	targetMake
	targetModel
	targetFlash
	targetDescription
	targetCopyright
	targetLatitude
	targetLongitude
	targetSubjectArea
	targetXMP
	targetIPTC
)

// rule is how a tag's value becomes the field's text.
type rule int

const (
	ruleDisplay     rule = iota // display value with unit
	ruleText                    // raw byte payload decoded as UTF-8
	ruleSubjectArea             // positional point/rectangle/circle decode
)

type tagSpec struct {
	ifd    ifdKind
	id     uint16
	name   string
	target target
	rule   rule
	unit   unit
}

// tagsOfInterest is the complete set of tags the EXIF path reads.
var tagsOfInterest = []tagSpec{
	{ifdPrimary, 0x0100, "ImageWidth", targetWidth, ruleDisplay, unitPixels},
	{ifdPrimary, 0x0101, "ImageLength", targetHeight, ruleDisplay, unitPixels},
	{ifdPrimary, 0x010e, "ImageDescription", targetDescription, ruleDisplay, unitNone},
	{ifdPrimary, 0x010f, "Make", targetMake, ruleDisplay, unitNone},
	{ifdPrimary, 0x0110, "Model", targetModel, ruleDisplay, unitNone},
	{ifdPrimary, 0x011a, "XResolution", targetResolutionX, ruleDisplay, unitResolution},
	{ifdPrimary, 0x011b, "YResolution", targetResolutionY, ruleDisplay, unitResolution},
	{ifdPrimary, 0x02bc, "XMLPacket", targetXMP, ruleText, unitNone},
	{ifdPrimary, 0x8298, "Copyright", targetCopyright, ruleDisplay, unitNone},
	{ifdPrimary, 0x83bb, "IPTC-NAA", targetIPTC, ruleText, unitNone},

	{ifdExif, 0x9209, "Flash", targetFlash, ruleDisplay, unitFlash},
	{ifdExif, 0x9214, "SubjectArea", targetSubjectArea, ruleSubjectArea, unitNone},
	{ifdExif, 0xa002, "PixelXDimension", targetWidth, ruleDisplay, unitPixels},
	{ifdExif, 0xa003, "PixelYDimension", targetHeight, ruleDisplay, unitPixels},
	{ifdExif, 0xa214, "SubjectLocation", targetSubjectArea, ruleSubjectArea, unitNone},

	{ifdGPS, 0x0002, "GPSLatitude", targetLatitude, ruleDisplay, unitLatitude},
	{ifdGPS, 0x0004, "GPSLongitude", targetLongitude, ruleDisplay, unitLongitude},
}

type tagKey struct {
	ifd ifdKind
	id  uint16
}

var tagIndex = func() map[tagKey]tagSpec {
	m := make(map[tagKey]tagSpec, len(tagsOfInterest))
	for _, s := range tagsOfInterest {
		m[tagKey{s.ifd, s.id}] = s
	}
	return m
}()

func lookupTag(kind ifdKind, id uint16) (tagSpec, bool) {
	s, ok := tagIndex[tagKey{kind, id}]
	return s, ok
}

// apply decodes tag by its table entry and stores the result in d. A returned error
// only affects this one field.
func apply(spec tagSpec, tag *tiff.Tag, r *renderer, d *core.Draft) error {
	switch spec.rule {
	case ruleSubjectArea:
		area, err := subjectArea(tag)
		if err != nil {
			return err
		}
		d.SubjectArea = area
		return nil
	case ruleText:
		s, err := payloadText(spec, tag)
		if err != nil {
			return err
		}
		return set(d, spec.target, s)
	default:
		s, err := r.display(spec, tag)
		if err != nil {
			return err
		}
		return set(d, spec.target, s)
	}
}

func set(d *core.Draft, t target, v string) error {
	switch t {
	case targetWidth:
		d.Width = v
	case targetHeight:
		d.Height = v
	case targetResolutionX:
		d.Resolution.X = v
	case targetResolutionY:
		d.Resolution.Y = v
	case targetMake:
		d.Make = v
	case targetModel:
		d.Model = v
	case targetFlash:
		d.FlashFound = v
	case targetDescription:
		d.Description = v
	case targetCopyright:
		d.Copyright = v
	case targetLatitude:
		d.GPS.Latitude = v
	case targetLongitude:
		d.GPS.Longitude = v
	case targetXMP:
		d.XMP = v
	case targetIPTC:
		d.IPTC = v
	default:
		return fmt.Errorf("no text field for target %d", t)
	}
	return nil
}

// payloadText returns the raw bytes of an XMP or IPTC tag as text. XMP is
// written as BYTE and IPTC as UNDEFINED; writers that use the other opaque
// types are accepted too.
func payloadText(spec tagSpec, tag *tiff.Tag) (string, error) {
	switch tag.Type {
	case tiff.DTByte, tiff.DTUndefined:
	case tiff.DTLong:
		if spec.target != targetIPTC {
			return "", fmt.Errorf("unexpected data type %d", tag.Type)
		}
	default:
		return "", fmt.Errorf("unexpected data type %d", tag.Type)
	}
	if !utf8.Valid(tag.Val) {
		return "", fmt.Errorf("payload is not valid UTF-8")
	}
	return string(tag.Val), nil
}

// subjectArea decodes SubjectArea/SubjectLocation: index 0 and 1 are the
// centre, then either width and height or a single diameter.
func subjectArea(tag *tiff.Tag) (core.SubjectArea, error) {
	n := int(tag.Count)
	if n < 2 {
		return core.SubjectArea{}, fmt.Errorf("subject area needs at least 2 values, got %d", n)
	}
	v := make([]string, 0, 4)
	for i := 0; i < n && i < 4; i++ {
		c, err := tag.Int(i)
		if err != nil {
			return core.SubjectArea{}, fmt.Errorf("subject area index %d: %w", i, err)
		}
		v = append(v, strconv.Itoa(c))
	}
	switch len(v) {
	case 4:
		return core.Rectangle(v[0], v[1], v[2], v[3]), nil
	case 3:
		return core.Circle(v[0], v[1], v[2]), nil
	default:
		return core.Point(v[0], v[1]), nil
	}
}
