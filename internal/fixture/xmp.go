package fixture

import (
	"fmt"
	"strings"
)

// Packet wraps rdf:Description bodies in an x:xmpmeta/rdf:RDF packet with
// the usual namespace declarations. Each argument becomes one
// rdf:Description.
func Packet(descriptions ...string) string {
	var sb strings.Builder
	sb.WriteString(`<?xpacket begin="` + "\ufeff" + `" id="W5M0MpCehiHzreSzNTczkc9d"?>` + "\n")
	sb.WriteString(`<x:xmpmeta xmlns:x="adobe:ns:meta/">` + "\n")
	sb.WriteString(`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` + "\n")
	for _, d := range descriptions {
		sb.WriteString(`<rdf:Description rdf:about=""` +
			` xmlns:dc="http://purl.org/dc/elements/1.1/"` +
			` xmlns:xmp="http://ns.adobe.com/xap/1.0/"` +
			` xmlns:xmpGImg="http://ns.adobe.com/xap/1.0/g/img/"` +
			` xmlns:xmpMM="http://ns.adobe.com/xap/1.0/mm/"` +
			` xmlns:stRef="http://ns.adobe.com/xap/1.0/sType/ResourceRef#">` + "\n")
		sb.WriteString(d)
		sb.WriteString("\n</rdf:Description>\n")
	}
	sb.WriteString("</rdf:RDF>\n</x:xmpmeta>\n")
	sb.WriteString(`<?xpacket end="w"?>`)
	return sb.String()
}

// LangAlt renders a dc property holding an rdf:Alt with one x-default item.
func LangAlt(name, value string) string {
	return fmt.Sprintf(`<dc:%s><rdf:Alt><rdf:li xml:lang="x-default">%s</rdf:li></rdf:Alt></dc:%s>`, name, value, name)
}

// Seq renders a dc property holding an rdf:Seq with one item.
func Seq(name, value string) string {
	return fmt.Sprintf(`<dc:%s><rdf:Seq><rdf:li>%s</rdf:li></rdf:Seq></dc:%s>`, name, value, name)
}

// Thumbnails renders xmp:Thumbnails with one rdf:li per item; each item is
// the inner XML of a parseType="Resource" list entry.
func Thumbnails(items ...string) string {
	var sb strings.Builder
	sb.WriteString("<xmp:Thumbnails><rdf:Alt>")
	for _, it := range items {
		sb.WriteString(`<rdf:li rdf:parseType="Resource">` + it + `</rdf:li>`)
	}
	sb.WriteString("</rdf:Alt></xmp:Thumbnails>")
	return sb.String()
}

// Thumbnail renders the four xmpGImg fields of one thumbnail.
func Thumbnail(format, width, height, image string) string {
	return fmt.Sprintf(`<xmpGImg:format>%s</xmpGImg:format><xmpGImg:width>%s</xmpGImg:width>`+
		`<xmpGImg:height>%s</xmpGImg:height><xmpGImg:image>%s</xmpGImg:image>`, format, width, height, image)
}

// DerivedFrom renders xmpMM:DerivedFrom with stRef attributes.
func DerivedFrom(originalDocumentID string) string {
	return fmt.Sprintf(`<xmpMM:DerivedFrom stRef:instanceID="xmp.iid:1" stRef:originalDocumentID="%s"/>`,
		originalDocumentID)
}
