package metasift

import (
	"github.com/rs/zerolog"

	"github.com/ankit-chaubey/metasift/core"
)

// Option configures a single Extract call.
//
// Example:
//
//	md, err := metasift.Extract(buf, "image/jpeg",
//	    metasift.WithLogger(logger),
//	    metasift.WithEmbeddedXMPFallback(false),
//	)
type Option func(*extractOptions)

type extractOptions struct {
	log         zerolog.Logger // Diagnostics; never affects the record
	embeddedXMP bool           // Read XMP stored beside EXIF when tag 700 is absent
}

func defaultOptions() *extractOptions {
	return &extractOptions{
		log:         zerolog.Nop(),
		embeddedXMP: true,
	}
}

// WithLogger sends diagnostics about skipped fields and aborted XMP walks
// to l. By default nothing is logged.
func WithLogger(l zerolog.Logger) Option {
	return func(o *extractOptions) {
		o.log = l
	}
}

// WithSink writes diagnostics as JSON lines to s.
//
// Example:
//
//	var lines []string
//	md, err := metasift.Extract(buf, mime, metasift.WithSink(core.SinkFunc(func(l string) {
//	    lines = append(lines, l)
//	})))
func WithSink(s core.Sink) Option {
	return func(o *extractOptions) {
		o.log = core.NewSinkLogger(s)
	}
}

// WithEmbeddedXMPFallback controls whether, on the EXIF path, an XMP packet
// stored in the container itself (JPEG APP1, PNG iTXt, WebP "XMP " chunk)
// is used when the EXIF block has no XMP tag. Enabled by default.
func WithEmbeddedXMPFallback(enabled bool) Option {
	return func(o *extractOptions) {
		o.embeddedXMP = enabled
	}
}
