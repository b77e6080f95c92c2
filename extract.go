package metasift

import (
	"fmt"

	"github.com/ankit-chaubey/metasift/core"
	"github.com/ankit-chaubey/metasift/core/document"
	"github.com/ankit-chaubey/metasift/core/image"
	"github.com/ankit-chaubey/metasift/core/xmp"
)

// Extract reads the metadata of data, routing on mimeType: application/pdf
// and application/postscript take the PDF path, anything else the EXIF path.
//
// It fails with a *core.ContainerParseError when data cannot be parsed as
// the implied container. A missing or malformed individual field is never an
// error; it is left empty in the record.
func Extract(data []byte, mimeType string, opts ...Option) (*core.Metadata, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	path := core.ClassifyMIME(mimeType)
	log := o.log.With().Str("mime", mimeType).Str("path", path.String()).Logger()

	d := &core.Draft{}
	var err error
	switch path {
	case core.PathPDF:
		err = document.Extract(data, d, log)
	default:
		err = image.Extract(data, d, log, image.Options{EmbeddedXMP: o.embeddedXMP})
	}
	if err != nil {
		log.Debug().Err(err).Msg("container unreadable")
		return nil, err
	}

	if d.XMP != "" {
		packet, err := xmp.Walk(d.XMP, log)
		if err != nil {
			log.Warn().Err(err).Msg("xmp walk aborted")
		} else {
			merge(d, packet)
		}
	}

	md, err := d.Build()
	if err != nil {
		return nil, fmt.Errorf("metasift: %w", err)
	}
	return md, nil
}
