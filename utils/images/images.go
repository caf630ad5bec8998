// Package images keeps low level image helpers used when images are written
// into the book.
package images

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
)

// DpiType is JFIF density unit.
type DpiType uint8

const (
	DpiNoUnits DpiType = iota
	DpiPxPerInch
	DpiPxPerCm
)

var (
	soi  = []byte{0xFF, 0xD8}
	app0 = []byte{0xFF, 0xE0}
	jfif = []byte{'J', 'F', 'I', 'F', 0x00, 0x01, 0x02} // identifier + version 1.02
)

// EnsureJFIFAPP0 inserts JFIF APP0 segment right after SOI when it is
// missing, Go encoder does not write it and without it print engines assume
// 72 dpi.
func EnsureJFIFAPP0(data []byte, unit DpiType, xdensity, ydensity uint16) ([]byte, bool, error) {
	if len(data) < 4 {
		return nil, false, errors.New("jpeg too small")
	}
	if !bytes.HasPrefix(data, soi) {
		return nil, false, errors.New("not a jpeg")
	}
	if bytes.Equal(data[2:4], app0) {
		return data, false, nil
	}

	buf := bytes.NewBuffer(make([]byte, 0, len(data)+18))
	buf.Write(soi)
	buf.Write(app0)
	_ = binary.Write(buf, binary.BigEndian, uint16(16)) // segment length
	buf.Write(jfif)
	buf.WriteByte(byte(unit))
	_ = binary.Write(buf, binary.BigEndian, xdensity)
	_ = binary.Write(buf, binary.BigEndian, ydensity)
	buf.Write([]byte{0, 0}) // no thumbnail
	buf.Write(data[2:])
	return buf.Bytes(), true, nil
}

// EncodeJPEG encodes image with requested quality and density in dots per
// inch.
func EncodeJPEG(img image.Image, quality int, dpi uint16) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	out, _, err := EnsureJFIFAPP0(buf.Bytes(), DpiPxPerInch, dpi, dpi)
	return out, err
}

// IsGrayscale reports whether all pixels of img have R==G==B.
func IsGrayscale(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R != c.G || c.G != c.B {
				return false
			}
		}
	}
	return true
}

// ToGray returns single channel copy of the image.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(b)
	draw.Draw(g, b, img, b.Min, draw.Src)
	return g
}

// IsOpaque reports whether image has no transparent pixels.
func IsOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return true
}
