package portrait

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"mkbook/utils/images"
)

// printDPI is density recorded in re-encoded JPEG images.
const printDPI = 300

// Image is image file ready to be written next to the book.
type Image struct {
	Name     string
	MimeType string
	Data     []byte
	Width    int
	Height   int
}

// PrepareOptions controls image re-encoding.
type PrepareOptions struct {
	Optimize    bool
	MaxHeight   int
	JPEGQuality int
}

// browsers show these as is
var webSafe = map[string]bool{"jpg": true, "png": true, "gif": true, "webp": true}

// Prepare reads image from the source. Image is decoded, downscaled and
// re-encoded when optimization is requested or when browsers cannot show the
// original format (TIFF, BMP); otherwise data is kept intact.
func Prepare(src Source, name string, opts PrepareOptions, log *zap.Logger) (*Image, error) {
	r, err := src.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unable to open image %s: %w", src.Location(name), err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read image %s: %w", src.Location(name), err)
	}

	kind, err := filetype.Image(data)
	if err != nil || kind == filetype.Unknown {
		return nil, fmt.Errorf("%s is not an image", src.Location(name))
	}

	stem := strings.TrimSuffix(name, path.Ext(name))
	res := &Image{
		Name:     stem + "." + kind.Extension,
		MimeType: kind.MIME.Value,
		Data:     data,
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		res.Width, res.Height = cfg.Width, cfg.Height
	}
	if webSafe[kind.Extension] && !opts.Optimize {
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to decode image %s: %w", src.Location(name), err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to decode image %s: %w", src.Location(name), err)
	}
	if opts.MaxHeight > 0 && img.Bounds().Dy() > opts.MaxHeight {
		log.Debug("Downscaling image", zap.String("name", name), zap.Int("from", img.Bounds().Dy()), zap.Int("to", opts.MaxHeight))
		img = imaging.Resize(img, 0, opts.MaxHeight, imaging.Lanczos)
	}

	if !images.IsOpaque(img) {
		buf := new(bytes.Buffer)
		if err := imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
			return nil, fmt.Errorf("unable to encode image %s: %w", name, err)
		}
		res.Name, res.MimeType, res.Data = stem+".png", "image/png", buf.Bytes()
	} else {
		if images.IsGrayscale(img) {
			img = images.ToGray(img)
		}
		quality := opts.JPEGQuality
		if quality == 0 {
			quality = 85
		}
		out, err := images.EncodeJPEG(img, quality, printDPI)
		if err != nil {
			return nil, fmt.Errorf("unable to encode image %s: %w", name, err)
		}
		res.Name, res.MimeType, res.Data = stem+".jpg", "image/jpeg", out
	}
	res.Width, res.Height = img.Bounds().Dx(), img.Bounds().Dy()
	log.Debug("Image prepared", zap.String("name", res.Name), zap.Int("original", len(data)), zap.Int("size", len(res.Data)))
	return res, nil
}
