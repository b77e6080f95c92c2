package xmp

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ankit-chaubey/metasift/core"
	"github.com/ankit-chaubey/metasift/internal/fixture"
)

func mustWalk(t *testing.T, payload string) *Packet {
	t.Helper()
	p, err := Walk(payload, zerolog.Nop())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	return p
}

func TestWalkDublinCore(t *testing.T) {
	p := mustWalk(t, fixture.Packet(
		fixture.LangAlt("title", "Sunset")+
			fixture.LangAlt("rights", "© 2024 Jane Doe")+
			fixture.Seq("creator", "Jane Doe"),
	))
	if p.Title != "Sunset" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Copyright != "© 2024 Jane Doe" {
		t.Errorf("Copyright = %q", p.Copyright)
	}
	if p.Author != "Jane Doe" {
		t.Errorf("Author = %q", p.Author)
	}
	if p.Thumbnails != nil || p.OriginalDocumentID != "" {
		t.Errorf("unexpected fields: %+v", p)
	}
}

func TestWalkAcrossDescriptions(t *testing.T) {
	p := mustWalk(t, fixture.Packet(
		fixture.LangAlt("title", "First"),
		fixture.Seq("creator", "Second Author"),
		fixture.LangAlt("title", "Last"),
	))
	if p.Title != "Last" {
		t.Errorf("Title = %q, later description should win", p.Title)
	}
	if p.Author != "Second Author" {
		t.Errorf("Author = %q", p.Author)
	}
}

func TestWalkSimpleLiteral(t *testing.T) {
	p := mustWalk(t, fixture.Packet(`<dc:title>Plain title</dc:title>`))
	if p.Title != "Plain title" {
		t.Errorf("Title = %q", p.Title)
	}
}

func TestWalkThumbnails(t *testing.T) {
	p := mustWalk(t, fixture.Packet(fixture.Thumbnails(
		fixture.Thumbnail("JPEG", "256", "144", "/9j/4AAQSkZJRg=="),
		`<xmpGImg:format>JPEG</xmpGImg:format><xmpGImg:width>10</xmpGImg:width>`,
		fixture.Thumbnail("PNG", "64", "64", "iVBORw0KGgo="),
	)))
	want := []core.Thumbnail{
		{Format: "JPEG", Width: "256", Height: "144", Image: "/9j/4AAQSkZJRg=="},
		{Format: "PNG", Width: "64", Height: "64", Image: "iVBORw0KGgo="},
	}
	if len(p.Thumbnails) != len(want) {
		t.Fatalf("got %d thumbnails, want %d: %+v", len(p.Thumbnails), len(want), p.Thumbnails)
	}
	for i := range want {
		if p.Thumbnails[i] != want[i] {
			t.Errorf("thumbnail %d = %+v, want %+v", i, p.Thumbnails[i], want[i])
		}
	}
}

func TestWalkThumbnailAttributes(t *testing.T) {
	item := `<rdf:Description xmpGImg:format="JPEG" xmpGImg:width="160" xmpGImg:height="120" xmpGImg:image="AAAA"/>`
	desc := `<xmp:Thumbnails><rdf:Alt><rdf:li>` + item + `</rdf:li></rdf:Alt></xmp:Thumbnails>`
	p := mustWalk(t, fixture.Packet(desc))
	if len(p.Thumbnails) != 1 {
		t.Fatalf("thumbnails = %+v", p.Thumbnails)
	}
	if got := p.Thumbnails[0]; got.Width != "160" || got.Image != "AAAA" {
		t.Errorf("thumbnail = %+v", got)
	}
}

func TestWalkDerivedFrom(t *testing.T) {
	tests := []struct {
		name string
		desc string
	}{
		{"attribute", fixture.DerivedFrom("xmp.did:ABC123")},
		{"element", `<xmpMM:DerivedFrom rdf:parseType="Resource">` +
			`<stRef:originalDocumentID>xmp.did:ABC123</stRef:originalDocumentID></xmpMM:DerivedFrom>`},
		{"nested description", `<xmpMM:DerivedFrom><rdf:Description ` +
			`stRef:originalDocumentID="xmp.did:ABC123"/></xmpMM:DerivedFrom>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustWalk(t, fixture.Packet(tt.desc))
			if p.OriginalDocumentID != "xmp.did:ABC123" {
				t.Errorf("OriginalDocumentID = %q", p.OriginalDocumentID)
			}
		})
	}
}

func TestWalkRDFAsRoot(t *testing.T) {
	payload := `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns:dc="http://purl.org/dc/elements/1.1/">` +
		`<rdf:Description>` + fixture.LangAlt("title", "Bare RDF") + `</rdf:Description></rdf:RDF>`
	if p := mustWalk(t, payload); p.Title != "Bare RDF" {
		t.Errorf("Title = %q", p.Title)
	}
}

func TestWalkUnstructured(t *testing.T) {
	payload := `<doc xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` +
		`<meta><title><Alt><rdf:li>Loose title</rdf:li></Alt></title></meta></doc>`
	if p := mustWalk(t, payload); p.Title != "Loose title" {
		t.Errorf("Title = %q", p.Title)
	}

	p := mustWalk(t, `<doc><meta/></doc>`)
	if p.Title != "" {
		t.Errorf("Title = %q, want empty", p.Title)
	}
}

func TestWalkPadding(t *testing.T) {
	payload := "\xef\xbb\xbf" + fixture.Packet(fixture.LangAlt("title", "Padded")) + strings.Repeat("\x00", 16) + "\n  "
	if p := mustWalk(t, payload); p.Title != "Padded" {
		t.Errorf("Title = %q", p.Title)
	}
}

func TestWalkMalformed(t *testing.T) {
	for _, payload := range []string{"<x:xmpmeta", "not xml at all", "", "<a>x</a><b/>"} {
		if _, err := Walk(payload, zerolog.Nop()); err == nil {
			t.Errorf("Walk(%q) succeeded, want error", payload)
		}
	}
}

func TestPacketHeaderCarriesBOM(t *testing.T) {
	payload := fixture.Packet(fixture.LangAlt("title", "Marked"))
	if !strings.Contains(payload, "begin=\"\ufeff\"") {
		t.Fatalf("packet header lacks the byte-order mark: %q", payload[:40])
	}
	if p := mustWalk(t, payload); p.Title != "Marked" {
		t.Errorf("Title = %q", p.Title)
	}
}
