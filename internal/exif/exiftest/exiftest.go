// Package exiftest builds minimal JPEG and TIFF byte streams with known
// metadata for tests. The generated TIFF is little-endian with IFD0 plus
// optional Exif, GPS and Interoperability sub-IFDs, which is enough
// structure for a real decoder to walk.
package exiftest

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"sort"
)

// IFD selects the namespace an entry is written into.
type IFD int

const (
	IFD0 IFD = iota
	ExifIFD
	GPSIFD
	InteropIFD
)

// TIFF field types used by the builder.
const (
	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5
)

const (
	tagExifIFDPointer    uint16 = 0x8769
	tagGPSIFDPointer     uint16 = 0x8825
	tagInteropIFDPointer uint16 = 0xA005
)

var le = binary.LittleEndian

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

// Builder accumulates tag entries and serializes them as a TIFF block.
type Builder struct {
	ifds [4][]entry
}

func NewBuilder() *Builder {
	return &Builder{}
}

// SetASCII writes a NUL-terminated string tag.
func (b *Builder) SetASCII(ifd IFD, tag uint16, s string) *Builder {
	data := append([]byte(s), 0)
	b.ifds[ifd] = append(b.ifds[ifd], entry{tag, typeASCII, uint32(len(data)), data})
	return b
}

// SetShort writes a single 16-bit integer tag.
func (b *Builder) SetShort(ifd IFD, tag uint16, v uint16) *Builder {
	data := make([]byte, 2)
	le.PutUint16(data, v)
	b.ifds[ifd] = append(b.ifds[ifd], entry{tag, typeShort, 1, data})
	return b
}

// SetRationals writes one or more numerator/denominator pairs.
func (b *Builder) SetRationals(ifd IFD, tag uint16, rats ...[2]uint32) *Builder {
	data := make([]byte, 0, len(rats)*8)
	for _, r := range rats {
		var buf [8]byte
		le.PutUint32(buf[0:4], r[0])
		le.PutUint32(buf[4:8], r[1])
		data = append(data, buf[:]...)
	}
	b.ifds[ifd] = append(b.ifds[ifd], entry{tag, typeRational, uint32(len(rats)), data})
	return b
}

func ifdSize(n int) int {
	return 2 + n*12 + 4
}

// TIFF serializes the accumulated entries into a little-endian TIFF block.
// The Interoperability pointer lives in the Exif IFD, so an Exif IFD is
// written whenever Interop entries exist.
func (b *Builder) TIFF() []byte {
	zeroth := append([]entry(nil), b.ifds[IFD0]...)
	exifEntries := append([]entry(nil), b.ifds[ExifIFD]...)
	gpsEntries := b.ifds[GPSIFD]
	interopEntries := b.ifds[InteropIFD]

	nExif := len(exifEntries)
	if len(interopEntries) > 0 {
		nExif++
	}

	n0 := len(zeroth)
	if nExif > 0 {
		n0++
	}
	if len(gpsEntries) > 0 {
		n0++
	}

	off := 8
	off += ifdSize(n0)
	exifOff := 0
	if nExif > 0 {
		exifOff = off
		off += ifdSize(nExif)
	}
	gpsOff := 0
	if len(gpsEntries) > 0 {
		gpsOff = off
		off += ifdSize(len(gpsEntries))
	}
	interopOff := 0
	if len(interopEntries) > 0 {
		interopOff = off
		off += ifdSize(len(interopEntries))
	}
	dataOff := off

	if exifOff != 0 {
		zeroth = append(zeroth, entry{tagExifIFDPointer, typeLong, 1, u32(uint32(exifOff))})
	}
	if gpsOff != 0 {
		zeroth = append(zeroth, entry{tagGPSIFDPointer, typeLong, 1, u32(uint32(gpsOff))})
	}
	if interopOff != 0 {
		exifEntries = append(exifEntries, entry{tagInteropIFDPointer, typeLong, 1, u32(uint32(interopOff))})
	}

	var overflow bytes.Buffer
	var out bytes.Buffer
	out.WriteString("II")
	mustWrite(&out, uint16(42))
	mustWrite(&out, uint32(8))

	writeIFD := func(entries []entry) {
		sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })
		mustWrite(&out, uint16(len(entries)))
		for _, e := range entries {
			mustWrite(&out, e.tag)
			mustWrite(&out, e.typ)
			mustWrite(&out, e.count)
			if len(e.data) <= 4 {
				var field [4]byte
				copy(field[:], e.data)
				out.Write(field[:])
			} else {
				mustWrite(&out, uint32(dataOff+overflow.Len()))
				overflow.Write(e.data)
			}
		}
		mustWrite(&out, uint32(0)) // no next IFD
	}

	writeIFD(zeroth)
	if exifOff != 0 {
		writeIFD(exifEntries)
	}
	if gpsOff != 0 {
		writeIFD(gpsEntries)
	}
	if interopOff != 0 {
		writeIFD(interopEntries)
	}
	out.Write(overflow.Bytes())
	return out.Bytes()
}

// JPEG wraps the TIFF block into an APP1 segment spliced into a real
// encoded JPEG, right after the SOI marker.
func (b *Builder) JPEG() []byte {
	return SpliceAPP1(PlainJPEG(16, 16), b.TIFF())
}

func mustWrite(buf *bytes.Buffer, v any) {
	if err := binary.Write(buf, le, v); err != nil {
		panic(err)
	}
}

func u32(v uint32) []byte {
	data := make([]byte, 4)
	le.PutUint32(data, v)
	return data
}

// PlainJPEG encodes a solid-color JPEG of the given dimensions with no
// metadata segments beyond what the encoder emits.
func PlainJPEG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// SpliceAPP1 inserts an APP1/Exif segment carrying tiffData into jpegData
// immediately after the SOI marker.
func SpliceAPP1(jpegData, tiffData []byte) []byte {
	payload := append([]byte("Exif\x00\x00"), tiffData...)
	seg := make([]byte, 0, 4+len(payload))
	seg = append(seg, 0xFF, 0xE1)
	length := len(payload) + 2
	seg = append(seg, byte(length>>8), byte(length))
	seg = append(seg, payload...)

	out := make([]byte, 0, len(jpegData)+len(seg))
	out = append(out, jpegData[:2]...)
	out = append(out, seg...)
	out = append(out, jpegData[2:]...)
	return out
}

// FullTags returns a builder populated with a representative tag set:
// camera identity, timestamps, capture parameters, a GPS position in the
// southern/western hemispheres, and the Interoperability IFD cameras
// normally write alongside the GPS IFD.
func FullTags() *Builder {
	b := NewBuilder()
	b.SetASCII(IFD0, 0x010F, "Canon")                    // Make
	b.SetASCII(IFD0, 0x0110, "Canon EOS R5")             // Model
	b.SetASCII(IFD0, 0x0131, "Darktable 4.6")            // Software
	b.SetASCII(IFD0, 0x0132, "2025:01:15 14:30:00")      // DateTime
	b.SetShort(IFD0, 0x0112, 1)                          // Orientation
	b.SetRationals(IFD0, 0x011A, [2]uint32{72, 1})       // XResolution
	b.SetRationals(IFD0, 0x011B, [2]uint32{72, 1})       // YResolution
	b.SetRationals(ExifIFD, 0x829A, [2]uint32{1, 200})   // ExposureTime
	b.SetRationals(ExifIFD, 0x829D, [2]uint32{16, 10})   // FNumber
	b.SetShort(ExifIFD, 0x8827, 100)                     // ISO
	b.SetASCII(ExifIFD, 0x9003, "2025:01:15 14:29:58")   // DateTimeOriginal
	b.SetRationals(ExifIFD, 0x920A, [2]uint32{50, 1})    // FocalLength
	b.SetASCII(GPSIFD, 0x0001, "S")                      // GPSLatitudeRef
	b.SetRationals(GPSIFD, 0x0002,                       // GPSLatitude 33°52'7.8"
		[2]uint32{33, 1}, [2]uint32{52, 1}, [2]uint32{78, 10})
	b.SetASCII(GPSIFD, 0x0003, "W")                      // GPSLongitudeRef
	b.SetRationals(GPSIFD, 0x0004,                       // GPSLongitude 151°12'30"
		[2]uint32{151, 1}, [2]uint32{12, 1}, [2]uint32{30, 1})
	b.SetRationals(GPSIFD, 0x0006, [2]uint32{584, 10}) // GPSAltitude 58.4m
	b.SetASCII(InteropIFD, 0x0001, "R98")              // InteroperabilityIndex
	return b
}
