// Package core defines the shared record type, structured intermediates and
// container classification for metasift.
package core

import "strconv"

// MetaField represents a single metadata key-value pair for display.
type MetaField struct {
	Key      string // Canonical field name (e.g. "Title", "Make", "Resolution")
	Value    string // String representation of the value
	Category string // Category label (e.g. "Document", "Camera", "Structured", "Raw")
}

// Metadata is the flat record produced by one extraction.
//
// Every field is a transport string. Resolution, GPS, SubjectArea and
// Thumbnails hold JSON text (see Draft.Build for the exact shapes). An empty
// string means the value was not found. The engine builds a Metadata once and
// never touches it again; callers are free to overwrite any field.
type Metadata struct {
	Title              string `json:"title" yaml:"title"`
	Author             string `json:"author" yaml:"author"`
	Width              string `json:"width" yaml:"width"`
	Height             string `json:"height" yaml:"height"`
	Resolution         string `json:"resolution" yaml:"resolution"`
	Make               string `json:"make" yaml:"make"`
	Model              string `json:"model" yaml:"model"`
	FlashFound         string `json:"flash_found" yaml:"flash_found"`
	Copyright          string `json:"copyright" yaml:"copyright"`
	Description        string `json:"description" yaml:"description"`
	GPS                string `json:"gps" yaml:"gps"`
	SubjectArea        string `json:"subject_area" yaml:"subject_area"`
	Thumbnails         string `json:"thumbnails" yaml:"thumbnails"`
	OriginalDocumentID string `json:"original_document_id" yaml:"original_document_id"`
	XMP                string `json:"xmp" yaml:"xmp"`
	IPTC               string `json:"iptc" yaml:"iptc"`
}

// Summary returns a short string of key fields for quick display.
func (m *Metadata) Summary() string {
	for _, f := range m.Fields() {
		if f.Key == "Title" || f.Key == "Make" || f.Key == "Author" {
			if f.Value != "" {
				return f.Key + ": " + f.Value
			}
		}
	}
	return "(no title)"
}

// Fields flattens the record into display fields, grouped by category.
// The raw XMP and IPTC payloads are reported by size only.
func (m *Metadata) Fields() []MetaField {
	fields := []MetaField{
		{Key: "Title", Value: m.Title, Category: "Document"},
		{Key: "Author", Value: m.Author, Category: "Document"},
		{Key: "Description", Value: m.Description, Category: "Document"},
		{Key: "Copyright", Value: m.Copyright, Category: "Document"},
		{Key: "OriginalDocumentID", Value: m.OriginalDocumentID, Category: "Document"},

		{Key: "Make", Value: m.Make, Category: "Camera"},
		{Key: "Model", Value: m.Model, Category: "Camera"},
		{Key: "Flash", Value: m.FlashFound, Category: "Camera"},
		{Key: "Width", Value: m.Width, Category: "Camera"},
		{Key: "Height", Value: m.Height, Category: "Camera"},

		{Key: "Resolution", Value: m.Resolution, Category: "Structured"},
		{Key: "GPS", Value: m.GPS, Category: "Structured"},
		{Key: "SubjectArea", Value: m.SubjectArea, Category: "Structured"},
		{Key: "Thumbnails", Value: m.Thumbnails, Category: "Structured"},
	}
	if m.XMP != "" {
		fields = append(fields, MetaField{Key: "XMP", Value: byteCount(len(m.XMP)), Category: "Raw"})
	}
	if m.IPTC != "" {
		fields = append(fields, MetaField{Key: "IPTC", Value: byteCount(len(m.IPTC)), Category: "Raw"})
	}
	return fields
}

// Resolution is the x/y resolution pair, each a display string such as
// "300 pixels per inch".
type Resolution struct {
	X string `json:"x,omitempty"`
	Y string `json:"y,omitempty"`
}

// GPS holds the display strings of the GPS position.
type GPS struct {
	Latitude  string `json:"latitude,omitempty"`
	Longitude string `json:"longitude,omitempty"`
}

// IsZero reports whether neither coordinate was found.
func (g GPS) IsZero() bool { return g.Latitude == "" && g.Longitude == "" }

// SubjectArea is the EXIF region of interest. It is a point (X, Y), a
// rectangle (X, Y, Width, Height) or a circle (X, Y, Diameter). Use Point,
// Rectangle and Circle to build one; they keep the shapes exclusive.
type SubjectArea struct {
	X        string `json:"x,omitempty"`
	Y        string `json:"y,omitempty"`
	Width    string `json:"width,omitempty"`
	Height   string `json:"height,omitempty"`
	Diameter string `json:"diameter,omitempty"`
}

// Point returns a subject area that only locates a point.
func Point(x, y string) SubjectArea { return SubjectArea{X: x, Y: y} }

// Rectangle returns a rectangular subject area centred on (x, y).
func Rectangle(x, y, width, height string) SubjectArea {
	return SubjectArea{X: x, Y: y, Width: width, Height: height}
}

// Circle returns a circular subject area centred on (x, y).
func Circle(x, y, diameter string) SubjectArea {
	return SubjectArea{X: x, Y: y, Diameter: diameter}
}

// IsCircle reports whether the area describes a circle.
func (s SubjectArea) IsCircle() bool { return s.Diameter != "" }

// Thumbnail is one embedded preview image. Image is kept in the text form
// the source used (base64 for XMP).
type Thumbnail struct {
	Format string `json:"format"`
	Width  string `json:"width"`
	Height string `json:"height"`
	Image  string `json:"image"`
}

func byteCount(n int) string {
	if n == 1 {
		return "1 byte"
	}
	return strconv.Itoa(n) + " bytes"
}
