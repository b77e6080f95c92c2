// Package document reads the trailer Info dictionary and the XMP metadata
// stream of PDF files, and the header comments and XMP packet of
// PostScript files.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/rs/zerolog"

	"github.com/ankit-chaubey/metasift/core"
)

func init() {
	// Keep pdfcpu from creating or reading its configuration directory.
	model.ConfigPath = "disable"
}

// infoFields maps the Info dictionary keys we keep to their draft fields.
var infoFields = map[string]func(d *core.Draft, v string){
	"Title":   func(d *core.Draft, v string) { d.Title = v },
	"Author":  func(d *core.Draft, v string) { d.Author = v },
	"Subject": func(d *core.Draft, v string) { d.Description = v },
}

// Extract reads data as a PDF (or a PostScript file with DSC header
// comments) into d. The raw XMP packet, when found, is stored in d.XMP for
// the caller to walk. Only a container that cannot be parsed at all is an
// error, and it is always a *core.ContainerParseError.
func Extract(data []byte, d *core.Draft, log zerolog.Logger) error {
	if isPostScript(data) {
		return extractPostScript(data, d, log)
	}

	ctx, err := read(data)
	if err != nil {
		return &core.ContainerParseError{Container: "PDF", Err: err}
	}
	readInfo(ctx, d, log)
	if s, ok := metadataStream(ctx, log); ok {
		d.XMP = s
	}
	return nil
}

// ─── PDF ─────────────────────────────────────────────────────────────────────

func read(data []byte) (ctx *model.Context, err error) {
	if !bytes.Contains(data[:min(len(data), 1024)], []byte("%PDF-")) {
		return nil, errors.New("missing %PDF header")
	}
	// pdfcpu panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			ctx, err = nil, fmt.Errorf("pdfcpu: %v", r)
		}
	}()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err = api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, err
	}
	if ctx.Root == nil {
		return nil, errors.New("pdf has no document catalog")
	}
	return ctx, nil
}

func readInfo(ctx *model.Context, d *core.Draft, log zerolog.Logger) {
	if ctx.Info == nil {
		log.Debug().Msg("pdf has no Info dictionary")
		return
	}
	info, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil || info == nil {
		log.Debug().Err(err).Msg("pdf Info dictionary unreadable")
		return
	}

	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		set, ok := infoFields[key]
		if !ok {
			log.Debug().Str("key", key).Msg("info key ignored")
			continue
		}
		obj, err := ctx.Dereference(info[key])
		if err != nil {
			log.Debug().Str("key", key).Err(err).Msg("info value unresolvable")
			continue
		}
		s, err := text(obj)
		if err != nil {
			log.Debug().Str("key", key).Err(err).Msg("info value skipped")
			continue
		}
		set(d, s)
	}
}

// text decodes a PDF string object, honouring UTF-16BE byte-order marks.
func text(obj types.Object) (string, error) {
	switch o := obj.(type) {
	case types.StringLiteral:
		return types.StringLiteralToString(o)
	case types.HexLiteral:
		return types.HexLiteralToString(o)
	default:
		return "", fmt.Errorf("not a string object: %T", obj)
	}
}

// metadataStream resolves the catalog's /Metadata stream and returns its
// decoded content as text.
func metadataStream(ctx *model.Context, log zerolog.Logger) (string, bool) {
	catalog, err := ctx.Catalog()
	if err != nil {
		log.Debug().Err(err).Msg("pdf catalog unreadable")
		return "", false
	}
	ref, found := catalog.Find("Metadata")
	if !found {
		return "", false
	}
	obj, err := ctx.Dereference(ref)
	if err != nil {
		log.Debug().Err(err).Msg("metadata stream unresolvable")
		return "", false
	}
	sd, ok := obj.(types.StreamDict)
	if !ok {
		log.Debug().Str("type", fmt.Sprintf("%T", obj)).Msg("metadata is not a stream")
		return "", false
	}
	if err := sd.Decode(); err != nil {
		log.Debug().Err(err).Msg("metadata stream undecodable")
		return "", false
	}
	if len(sd.Content) == 0 || !utf8.Valid(sd.Content) {
		log.Debug().Msg("metadata stream empty or not UTF-8")
		return "", false
	}
	return string(sd.Content), true
}
