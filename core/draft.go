package core

import (
	"encoding/json"
	"fmt"
)

// Draft accumulates extracted values before they are serialized into a
// Metadata record. Extractors write into a Draft; only Build turns it into
// the transport form.
type Draft struct {
	Title              string
	Author             string
	Width              string
	Height             string
	Make               string
	Model              string
	FlashFound         string
	Copyright          string
	Description        string
	OriginalDocumentID string
	XMP                string
	IPTC               string

	Resolution  Resolution
	GPS         GPS
	SubjectArea SubjectArea
	Thumbnails  []Thumbnail
}

// Build serializes the structured fields and returns the finished record.
//
// Shapes:
//
//	resolution    [{"x":..,"y":..}]   always one element, possibly {}
//	gps           [] or [{"latitude":..,"longitude":..}]
//	subject_area  {"x":..,"y":..,"width":..,"height":..} or {"x":..,"y":..,"diameter":..} or {}
//	thumbnails    [{"format":..,"width":..,"height":..,"image":..}, ...] or []
//
// An error means an intermediate could not be encoded, which only happens
// when an invariant has been broken.
func (d *Draft) Build() (*Metadata, error) {
	resolution, err := EncodeResolution(d.Resolution)
	if err != nil {
		return nil, err
	}
	gps, err := EncodeGPS(d.GPS)
	if err != nil {
		return nil, err
	}
	area, err := EncodeSubjectArea(d.SubjectArea)
	if err != nil {
		return nil, err
	}
	thumbs, err := EncodeThumbnails(d.Thumbnails)
	if err != nil {
		return nil, err
	}

	return &Metadata{
		Title:              d.Title,
		Author:             d.Author,
		Width:              d.Width,
		Height:             d.Height,
		Resolution:         resolution,
		Make:               d.Make,
		Model:              d.Model,
		FlashFound:         d.FlashFound,
		Copyright:          d.Copyright,
		Description:        d.Description,
		GPS:                gps,
		SubjectArea:        area,
		Thumbnails:         thumbs,
		OriginalDocumentID: d.OriginalDocumentID,
		XMP:                d.XMP,
		IPTC:               d.IPTC,
	}, nil
}

// ─── Encoders ────────────────────────────────────────────────────────────────

// EncodeResolution renders r as a one-element JSON array.
func EncodeResolution(r Resolution) (string, error) {
	return encode("resolution", []Resolution{r})
}

// EncodeGPS renders g as a JSON array that is empty when no coordinate was
// found.
func EncodeGPS(g GPS) (string, error) {
	list := []GPS{}
	if !g.IsZero() {
		list = append(list, g)
	}
	return encode("gps", list)
}

// EncodeSubjectArea renders s as a JSON object.
func EncodeSubjectArea(s SubjectArea) (string, error) {
	if s.Diameter != "" && (s.Width != "" || s.Height != "") {
		return "", fmt.Errorf("subject_area: circle and rectangle keys both set")
	}
	return encode("subject_area", s)
}

// EncodeThumbnails renders the thumbnail list as a JSON array, never null.
func EncodeThumbnails(t []Thumbnail) (string, error) {
	if t == nil {
		t = []Thumbnail{}
	}
	return encode("thumbnails", t)
}

func encode(field string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%s: encode: %w", field, err)
	}
	return string(b), nil
}

// ─── Decoders ────────────────────────────────────────────────────────────────

// DecodeResolution parses the transport form produced by EncodeResolution.
func DecodeResolution(s string) (Resolution, error) {
	var list []Resolution
	if err := decode("resolution", s, &list); err != nil {
		return Resolution{}, err
	}
	if len(list) != 1 {
		return Resolution{}, fmt.Errorf("resolution: want 1 element, got %d", len(list))
	}
	return list[0], nil
}

// DecodeGPS parses the transport form produced by EncodeGPS.
func DecodeGPS(s string) (GPS, error) {
	var list []GPS
	if err := decode("gps", s, &list); err != nil {
		return GPS{}, err
	}
	switch len(list) {
	case 0:
		return GPS{}, nil
	case 1:
		return list[0], nil
	default:
		return GPS{}, fmt.Errorf("gps: want at most 1 element, got %d", len(list))
	}
}

// DecodeSubjectArea parses the transport form produced by EncodeSubjectArea.
func DecodeSubjectArea(s string) (SubjectArea, error) {
	var area SubjectArea
	err := decode("subject_area", s, &area)
	return area, err
}

// DecodeThumbnails parses the transport form produced by EncodeThumbnails.
func DecodeThumbnails(s string) ([]Thumbnail, error) {
	list := []Thumbnail{}
	err := decode("thumbnails", s, &list)
	return list, err
}

func decode(field, s string, v any) error {
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("%s: decode: %w", field, err)
	}
	return nil
}
