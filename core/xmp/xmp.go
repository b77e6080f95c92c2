// Package xmp walks XMP/RDF packets and pulls out the Dublin Core, XMP
// thumbnail and media-management fields metasift reports.
package xmp

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/ankit-chaubey/metasift/core"
)

// Namespace URIs.
const (
	NSRDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSDC      = "http://purl.org/dc/elements/1.1/"
	NSXMP     = "http://ns.adobe.com/xap/1.0/"
	NSXMPGImg = "http://ns.adobe.com/xap/1.0/g/img/"
	NSXMPMM   = "http://ns.adobe.com/xap/1.0/mm/"
	NSStRef   = "http://ns.adobe.com/xap/1.0/sType/ResourceRef#"
)

// Packet holds the fields found in one XMP packet. Empty strings and a nil
// Thumbnails slice mean "not present in the packet".
type Packet struct {
	Title              string
	Author             string
	Copyright          string
	OriginalDocumentID string
	Thumbnails         []core.Thumbnail
}

// Walk parses payload and extracts its fields. It fails only when the
// payload is not well-formed XML; missing nodes just leave fields empty.
func Walk(payload string, log zerolog.Logger) (*Packet, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(trimPadding(payload)); err != nil {
		return nil, fmt.Errorf("xmp: %w", err)
	}
	if n := len(doc.ChildElements()); n != 1 {
		return nil, fmt.Errorf("xmp: want one root element, found %d", n)
	}
	root := doc.Root()

	p := &Packet{}
	if rdf, ok := rdfRoot(root); ok {
		p.walkRDF(rdf, log)
	} else {
		p.walkUnstructured(root, log)
	}
	return p, nil
}

// trimPadding drops a leading byte-order mark and the NUL and whitespace
// padding writers leave around the packet.
func trimPadding(payload string) []byte {
	b := bytes.TrimPrefix([]byte(payload), []byte("\xef\xbb\xbf"))
	return bytes.Trim(b, "\x00 \t\r\n")
}

func rdfRoot(root *etree.Element) (*etree.Element, bool) {
	if is(root, NSRDF, "RDF") {
		return root, true
	}
	return walk(root, child(NSRDF, "RDF"))
}

// walkUnstructured handles packets with no rdf:RDF below the root: the first
// element named title anywhere in the tree, its container, then the rdf:li.
func (p *Packet) walkUnstructured(root *etree.Element, log zerolog.Logger) {
	li, ok := walk(root, descendant("title"), firstChild(), child(NSRDF, "li"))
	if !ok {
		log.Debug().Str("path", "title/*/rdf:li").Msg("xmp field absent")
		return
	}
	p.Title = text(li)
}

func (p *Packet) walkRDF(rdf *etree.Element, log zerolog.Logger) {
	for _, desc := range rdf.ChildElements() {
		if s, ok := langValue(desc, NSDC, "title"); ok {
			p.Title = s
		}
		if s, ok := langValue(desc, NSDC, "rights"); ok {
			p.Copyright = s
		}
		if s, ok := langValue(desc, NSDC, "creator"); ok {
			p.Author = s
		}
		if thumbs, ok := thumbnails(desc, log); ok {
			p.Thumbnails = append(p.Thumbnails, thumbs...)
		}
		if s, ok := originalDocumentID(desc); ok {
			p.OriginalDocumentID = s
		}
	}
}

// langValue reads a property that wraps its value in an rdf:Alt, rdf:Seq or
// rdf:Bag: the first item of the container. A simple literal property is
// accepted too.
func langValue(desc *etree.Element, space, local string) (string, bool) {
	prop, ok := walk(desc, child(space, local))
	if !ok {
		return "", false
	}
	if item, ok := walk(prop, firstChild(), firstChild()); ok {
		return text(item), true
	}
	if len(prop.ChildElements()) == 0 {
		if s := text(prop); s != "" {
			return s, true
		}
	}
	return "", false
}

// thumbnails reads xmp:Thumbnails. Every item must supply format, width,
// height and image in the xmpGImg namespace or it is skipped.
func thumbnails(desc *etree.Element, log zerolog.Logger) ([]core.Thumbnail, bool) {
	list, ok := walk(desc, child(NSXMP, "Thumbnails"), firstChild())
	if !ok {
		return nil, false
	}
	var out []core.Thumbnail
	for i, li := range list.ChildElements() {
		if !is(li, NSRDF, "li") {
			continue
		}
		t, ok := thumbnail(li)
		if !ok {
			log.Debug().Int("index", i).Msg("xmp thumbnail incomplete, skipped")
			continue
		}
		out = append(out, t)
	}
	return out, true
}

func thumbnail(li *etree.Element) (core.Thumbnail, bool) {
	// Fields live on the li itself (rdf:parseType="Resource") or on a
	// nested rdf:Description, either as elements or as attributes.
	node := li
	if d, ok := walk(li, child(NSRDF, "Description")); ok {
		node = d
	}
	var t core.Thumbnail
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"format", &t.Format},
		{"width", &t.Width},
		{"height", &t.Height},
		{"image", &t.Image},
	} {
		v, ok := property(node, NSXMPGImg, f.name)
		if !ok {
			return core.Thumbnail{}, false
		}
		*f.dst = v
	}
	return t, true
}

// originalDocumentID reads xmpMM:DerivedFrom/stRef:originalDocumentID.
func originalDocumentID(desc *etree.Element) (string, bool) {
	from, ok := walk(desc, child(NSXMPMM, "DerivedFrom"))
	if !ok {
		return "", false
	}
	if d, ok := walk(from, child(NSRDF, "Description")); ok {
		from = d
	}
	return property(from, NSStRef, "originalDocumentID")
}

// property reads a simple property written either as a child element or as
// an attribute.
func property(e *etree.Element, space, local string) (string, bool) {
	if c, ok := walk(e, child(space, local)); ok {
		return text(c), true
	}
	return attr(e, space, local)
}

func text(e *etree.Element) string {
	return strings.TrimSpace(e.Text())
}
