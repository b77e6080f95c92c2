// Package image reads the EXIF tag table of image containers (JPEG, PNG,
// WebP, TIFF and HEIF) into a core.Draft.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/ankit-chaubey/metasift/core"
)

// Options tune the EXIF path.
type Options struct {
	// EmbeddedXMP takes the XMP packet stored beside the EXIF block (JPEG
	// APP1, PNG iTXt, WebP "XMP " chunk) when tag 700 is absent.
	EmbeddedXMP bool
}

// Extract locates the EXIF block inside data and copies the tags of interest
// into d. It fails with a *core.ContainerParseError when the container or the
// EXIF block cannot be read at all; a container that is intact but carries
// no EXIF leaves d untouched.
func Extract(data []byte, d *core.Draft, log zerolog.Logger, opts Options) error {
	p, err := locate(data)
	if err != nil {
		return &core.ContainerParseError{Container: "EXIF", Err: err}
	}

	if p.exif != nil {
		if err := readEXIF(p.exif, d, log); err != nil {
			return &core.ContainerParseError{Container: "EXIF", Err: err}
		}
	} else {
		log.Debug().Str("container", string(p.format)).Msg("container carries no EXIF block")
	}

	if d.XMP == "" && opts.EmbeddedXMP && len(p.xmp) > 0 {
		if utf8.Valid(p.xmp) {
			d.XMP = string(p.xmp)
		} else {
			log.Debug().Str("container", string(p.format)).Msg("embedded XMP packet is not UTF-8")
		}
	}
	return nil
}

// ─── EXIF ────────────────────────────────────────────────────────────────────

// ifd is one decoded image file directory together with its role.
type ifd struct {
	kind ifdKind
	dir  *tiff.Dir
}

// Pointer tags in IFD0 leading to the sub-directories we read.
const (
	tagExifIFDPointer = 0x8769
	tagGPSIFDPointer  = 0x8825
)

func readEXIF(raw []byte, d *core.Draft, log zerolog.Logger) (err error) {
	if err := checkTIFF(raw); err != nil {
		return err
	}
	// goexif panics on some inconsistent directories.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("goexif: %v", r)
		}
	}()

	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		if x == nil || exif.IsCriticalError(err) {
			return err
		}
		log.Warn().Err(err).Msg("EXIF block partially readable")
	}
	if x.Tiff == nil || len(x.Tiff.Dirs) == 0 {
		return errors.New("EXIF block has no image file directory")
	}

	dirs := directories(x, log)
	r := newRenderer(dirs)
	for _, dir := range dirs {
		for _, tag := range dir.dir.Tags {
			spec, ok := lookupTag(dir.kind, tag.Id)
			if !ok {
				continue
			}
			if err := apply(spec, tag, r, d); err != nil {
				log.Debug().Str("tag", spec.name).Err(err).Msg("field skipped")
			}
		}
	}
	return nil
}

// directories returns IFD0 followed by the Exif and GPS sub-directories, in
// that order, so that later directories win for tags mapped to one field.
func directories(x *exif.Exif, log zerolog.Logger) []ifd {
	primary := x.Tiff.Dirs[0]
	dirs := []ifd{{kind: ifdPrimary, dir: primary}}

	for _, sub := range []struct {
		ptr  uint16
		kind ifdKind
		name string
	}{
		{tagExifIFDPointer, ifdExif, "Exif"},
		{tagGPSIFDPointer, ifdGPS, "GPS"},
	} {
		ptr := findTag(primary, sub.ptr)
		if ptr == nil {
			continue
		}
		dir, err := subDir(x, ptr)
		if err != nil {
			log.Debug().Str("ifd", sub.name).Err(err).Msg("sub-directory unreadable")
			continue
		}
		dirs = append(dirs, ifd{kind: sub.kind, dir: dir})
	}
	return dirs
}

func subDir(x *exif.Exif, ptr *tiff.Tag) (*tiff.Dir, error) {
	offset, err := ptr.Int64(0)
	if err != nil {
		return nil, err
	}
	if offset <= 0 || offset >= int64(len(x.Raw)) {
		return nil, fmt.Errorf("offset %d outside EXIF block", offset)
	}
	r := bytes.NewReader(x.Raw)
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	dir, _, err := tiff.DecodeDir(r, x.Tiff.Order)
	return dir, err
}

func findTag(dir *tiff.Dir, id uint16) *tiff.Tag {
	for _, tag := range dir.Tags {
		if tag.Id == id {
			return tag
		}
	}
	return nil
}
