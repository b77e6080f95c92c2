package metasift

import (
	"github.com/ankit-chaubey/metasift/core"
	"github.com/ankit-chaubey/metasift/core/xmp"
)

// merge applies the fields of an XMP packet over what the EXIF or PDF path
// already put in d. The packet always runs last, so any field it carries
// replaces the earlier value; fields it lacks leave d alone.
func merge(d *core.Draft, p *xmp.Packet) {
	if p.Title != "" {
		d.Title = p.Title
	}
	if p.Author != "" {
		d.Author = p.Author
	}
	if p.Copyright != "" {
		d.Copyright = p.Copyright
	}
	if p.OriginalDocumentID != "" {
		d.OriginalDocumentID = p.OriginalDocumentID
	}
	if len(p.Thumbnails) > 0 {
		d.Thumbnails = p.Thumbnails
	}
}
