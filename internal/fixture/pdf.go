package fixture

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// PDF describes a one-page PDF with an optional Info dictionary and XMP
// metadata stream.
type PDF struct {
	Info map[string]string // literal string values, escaped on output
	XMP  string            // metadata stream content; empty omits the stream
	// DanglingMetadata points the catalog's /Metadata at an object that
	// does not exist.
	DanglingMetadata bool
}

// Bytes renders the PDF with a correct cross-reference table.
func (p PDF) Bytes() []byte {
	var objs []string
	catalog := "<< /Type /Catalog /Pages 2 0 R"
	metaNum, infoNum := 0, 0

	pages := "<< /Type /Pages /Kids [3 0 R] /Count 1 >>"
	page := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>"
	objs = append(objs, "", pages, page) // catalog filled in below

	if p.XMP != "" {
		objs = append(objs, fmt.Sprintf("<< /Type /Metadata /Subtype /XML /Length %d >>\nstream\n%s\nendstream",
			len(p.XMP), p.XMP))
		metaNum = len(objs)
	}
	if len(p.Info) > 0 {
		keys := make([]string, 0, len(p.Info))
		for k := range p.Info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var sb strings.Builder
		sb.WriteString("<<")
		for _, k := range keys {
			fmt.Fprintf(&sb, " /%s (%s)", k, escapePDF(p.Info[k]))
		}
		sb.WriteString(" >>")
		objs = append(objs, sb.String())
		infoNum = len(objs)
	}

	switch {
	case p.DanglingMetadata:
		catalog += fmt.Sprintf(" /Metadata %d 0 R", len(objs)+5)
	case metaNum > 0:
		catalog += fmt.Sprintf(" /Metadata %d 0 R", metaNum)
	}
	objs[0] = catalog + " >>"

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xE2\xE3\xCF\xD3\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R", len(objs)+1)
	if infoNum > 0 {
		fmt.Fprintf(&buf, " /Info %d 0 R", infoNum)
	}
	fmt.Fprintf(&buf, " >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func escapePDF(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return r.Replace(s)
}
