package exif

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/adrium/goheif"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	apperrors "looma-api/internal/errors"
)

// Kind discriminates the decoded representation of a raw tag value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindRational
)

// Rational is EXIF's native numerator/denominator pair.
type Rational struct {
	Num int64
	Den int64
}

// Value is one decoded tag value: a string, one or more integers, or one
// or more rationals, discriminated by Kind.
type Value struct {
	Kind Kind
	Str  string
	Ints []int64
	Rats []Rational
}

// TagMap maps numeric tag IDs to decoded values within one namespace.
type TagMap map[uint16]Value

// Str returns the string value for id, or "" if absent or not a string.
func (m TagMap) Str(id uint16) string {
	v, ok := m[id]
	if !ok || v.Kind != KindString {
		return ""
	}
	return v.Str
}

// Int returns the first integer value for id.
func (m TagMap) Int(id uint16) (int64, bool) {
	v, ok := m[id]
	if !ok || v.Kind != KindInt || len(v.Ints) == 0 {
		return 0, false
	}
	return v.Ints[0], true
}

// Rat returns the first rational value for id.
func (m TagMap) Rat(id uint16) (Rational, bool) {
	v, ok := m[id]
	if !ok || v.Kind != KindRational || len(v.Rats) == 0 {
		return Rational{}, false
	}
	return v.Rats[0], true
}

// Rats returns all rational components for id (e.g. degrees/minutes/seconds).
func (m TagMap) Rats(id uint16) ([]Rational, bool) {
	v, ok := m[id]
	if !ok || v.Kind != KindRational || len(v.Rats) == 0 {
		return nil, false
	}
	return v.Rats, true
}

// RawTags is the parser-to-extractor handoff: the decoded TIFF tag values
// grouped by namespace. It is internal plumbing and is not exposed past
// the semantic extractor.
type RawTags struct {
	Zeroth TagMap
	Exif   TagMap
	GPS    TagMap
}

func newRawTags() *RawTags {
	return &RawTags{
		Zeroth: make(TagMap),
		Exif:   make(TagMap),
		GPS:    make(TagMap),
	}
}

// Empty reports whether no dictionary tag was decoded.
func (r *RawTags) Empty() bool {
	return r == nil || (len(r.Zeroth) == 0 && len(r.Exif) == 0 && len(r.GPS) == 0)
}

// Parse locates the EXIF metadata block in a JPEG or HEIC byte stream and
// decodes it into a RawTags map. It returns (nil, nil) when the image carries
// no metadata block at all (the normal case for PNG/WebP, stripped JPEGs and
// HEIC without an Exif item), and a wrapped ErrMalformedExif when a block is
// present but cannot be decoded. Callers that do not care about the
// distinction should use ExtractFromImage, which collapses both to an empty
// result.
func Parse(data []byte) (*RawTags, error) {
	var r io.Reader
	switch {
	case isHeifContainer(data):
		block, err := goheif.ExtractExif(bytes.NewReader(data))
		if err != nil || len(block) == 0 {
			return nil, nil
		}
		r = bytes.NewReader(tiffPayload(block))
	case hasExifSegment(data):
		r = bytes.NewReader(data)
	default:
		return nil, nil
	}

	x, err := exif.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedExif, err)
	}

	c := &tagCollector{raw: newRawTags()}
	if err := x.Walk(c); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedExif, err)
	}

	if c.raw.Empty() {
		return nil, nil
	}
	return c.raw, nil
}

// tagCollector routes decoded TIFF tags into the three namespace maps.
type tagCollector struct {
	raw *RawTags
}

// Walk implements exif.Walker. A tag is accepted into a namespace only when
// both its numeric ID and the decoder's field name agree with the dictionary:
// sub-IFDs reuse low numeric IDs (Interoperability tag 0x0001 collides with
// GPSLatitudeRef), so the ID alone cannot identify the namespace.
func (c *tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	v, ok := decodeTag(tag)
	if !ok {
		return nil
	}

	switch string(name) {
	case gpsTagNames[tag.Id]:
		c.raw.GPS[tag.Id] = v
	case exifTagNames[tag.Id]:
		c.raw.Exif[tag.Id] = v
	case zerothTagNames[tag.Id]:
		c.raw.Zeroth[tag.Id] = v
	}
	return nil
}

// decodeTag converts a TIFF tag into a Value, skipping formats the
// extractor has no use for (undefined, float, byte blobs).
func decodeTag(tag *tiff.Tag) (Value, bool) {
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return Value{}, false
		}
		return Value{Kind: KindString, Str: s}, true
	case tiff.IntVal:
		ints := make([]int64, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			n, err := tag.Int(i)
			if err != nil {
				break
			}
			ints = append(ints, int64(n))
		}
		if len(ints) == 0 {
			return Value{}, false
		}
		return Value{Kind: KindInt, Ints: ints}, true
	case tiff.RatVal:
		rats := make([]Rational, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			num, den, err := tag.Rat2(i)
			if err != nil {
				break
			}
			rats = append(rats, Rational{Num: num, Den: den})
		}
		if len(rats) == 0 {
			return Value{}, false
		}
		return Value{Kind: KindRational, Rats: rats}, true
	default:
		return Value{}, false
	}
}

// JPEG marker constants for the segment scan.
const (
	markerPrefix = 0xFF
	markerSOI    = 0xD8
	markerSOS    = 0xDA
	markerEOI    = 0xD9
	markerAPP1   = 0xE1
)

var exifHeader = []byte("Exif\x00\x00")

// HEIC/HEIF files are ISO-BMFF containers opening with an ftyp box.
var heifBrands = map[string]bool{
	"heic": true,
	"heix": true,
	"heif": true,
	"hevc": true,
	"mif1": true,
	"msf1": true,
}

func isHeifContainer(data []byte) bool {
	if len(data) < 12 || !bytes.Equal(data[4:8], []byte("ftyp")) {
		return false
	}
	return heifBrands[string(data[8:12])]
}

var (
	tiffLE = []byte("II*\x00")
	tiffBE = []byte("MM\x00*")
)

// tiffPayload trims the framing a HEIC Exif item carries around the TIFF
// block: an optional big-endian offset word and the Exif\0\0 header, in
// either combination. Input that is already a bare TIFF block passes
// through unchanged.
func tiffPayload(block []byte) []byte {
	for _, off := range []int{0, 4, 6, 10} {
		if len(block) >= off+4 {
			head := block[off : off+4]
			if bytes.Equal(head, tiffLE) || bytes.Equal(head, tiffBE) {
				return block[off:]
			}
		}
	}
	if i := bytes.Index(block, exifHeader); i >= 0 {
		return block[i+len(exifHeader):]
	}
	return block
}

// hasExifSegment walks the JPEG marker stream looking for an APP1 segment
// with an Exif header. Non-JPEG input and truncated streams simply report
// false; the scan never errors.
func hasExifSegment(data []byte) bool {
	if len(data) < 4 || data[0] != markerPrefix || data[1] != markerSOI {
		return false
	}

	off := 2
	for off+4 <= len(data) {
		if data[off] != markerPrefix {
			return false
		}
		marker := data[off+1]

		// Padding between segments is legal.
		if marker == markerPrefix {
			off++
			continue
		}
		// Entropy-coded data follows SOS; metadata segments only precede it.
		if marker == markerSOS || marker == markerEOI {
			return false
		}
		// Standalone markers carry no length.
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			off += 2
			continue
		}

		length := int(binary.BigEndian.Uint16(data[off+2 : off+4]))
		if length < 2 || off+2+length > len(data) {
			return false
		}
		if marker == markerAPP1 && length >= 2+len(exifHeader) &&
			bytes.Equal(data[off+4:off+4+len(exifHeader)], exifHeader) {
			return true
		}
		off += 2 + length
	}
	return false
}
