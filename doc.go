// Package metasift extracts descriptive and technical metadata from image,
// PDF and PostScript files into one flat record.
//
// Three encodings are read: the binary EXIF tag table of image containers,
// the trailer Info dictionary of PDF files, and XMP/RDF packets embedded in
// either. The MIME type picks exactly one of the EXIF and PDF paths. When
// that path yields an XMP packet it is walked afterwards, and the fields it
// finds (title, author, copyright, thumbnails, original document ID) replace
// the ones the first path set.
//
// Basic usage:
//
//	data, _ := os.ReadFile("photo.jpg")
//	md, err := metasift.Extract(data, "image/jpeg")
//	if err != nil {
//		if core.IsContainerParseError(err) {
//			// not a readable container of the declared kind
//		}
//		return err
//	}
//	fmt.Println(md.Title, md.Make, md.Resolution)
//
// Structured fields are JSON text in the record:
//
//	resolution    [{"x":"300 pixels per inch","y":"300 pixels per inch"}]
//	gps           [] or [{"latitude":"...","longitude":"..."}]
//	subject_area  {"x":..,"y":..,"width":..,"height":..} or {"x":..,"y":..,"diameter":..}
//	thumbnails    [{"format":"JPEG","width":"256","height":"171","image":"/9j/4AAQ..."}]
//
// Use core.DecodeResolution, core.DecodeGPS, core.DecodeSubjectArea and
// core.DecodeThumbnails to get the typed values back.
//
// Extract is synchronous and keeps no state between calls, so it is safe to
// call from several goroutines. It has no timeout of its own.
package metasift
