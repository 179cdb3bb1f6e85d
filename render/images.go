package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"go.uber.org/zap"

	"dpc/common"
	"dpc/fetch"
	"dpc/utils/images"
)

// ImageSource loads a block's image reference into a decoded image.
type ImageSource interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// HTTPSource loads image references over HTTP. SVG payloads are rasterized,
// everything else goes through the standard decoders.
type HTTPSource struct {
	client *fetch.Client
	log    *zap.Logger
}

// NewHTTPSource creates an image source backed by the fetch client.
func NewHTTPSource(client *fetch.Client, log *zap.Logger) *HTTPSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPSource{client: client, log: log.Named("images")}
}

// Load fetches and decodes an image reference. References without an http
// scheme are read from the local filesystem, that is where generated images
// land.
func (s *HTTPSource) Load(ctx context.Context, ref string) (image.Image, error) {
	var (
		data        []byte
		contentType string
		err         error
	)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		data, contentType, err = s.client.Get(ctx, ref)
	} else {
		data, err = os.ReadFile(ref)
	}
	if err != nil {
		return nil, err
	}

	if isSVG(data, contentType) {
		img, err := images.RasterizeSVGToImage(data, 0, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("rasterizing svg %q: %w", ref, err)
		}
		return img, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image %q: %w", ref, err)
	}
	return img, nil
}

// isSVG detects SVG payloads via content type or document sniffing.
func isSVG(data []byte, contentType string) bool {
	if strings.Contains(contentType, "image/svg") {
		return true
	}
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		// A recognized binary image type is definitely not SVG.
		if kind == matchers.TypePng || kind == matchers.TypeJpeg ||
			kind == matchers.TypeGif || kind == matchers.TypeWebp {
			return false
		}
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(head, []byte("<svg"))
}

// placeholderSVG builds the empty-slot placeholder graphic: a filled frame
// with a simple photo glyph, sized to the slot.
func placeholderSVG(w, h int, fill string) []byte {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("viewBox", fmt.Sprintf("0 0 %d %d", w, h))
	svg.CreateAttr("width", strconv.Itoa(w))
	svg.CreateAttr("height", strconv.Itoa(h))

	bg := svg.CreateElement("rect")
	bg.CreateAttr("width", strconv.Itoa(w))
	bg.CreateAttr("height", strconv.Itoa(h))
	bg.CreateAttr("fill", fill)

	// Photo glyph: frame, sun, mountain line.
	gw, gh := w/3, h/3
	gx, gy := (w-gw)/2, (h-gh)/2

	frame := svg.CreateElement("rect")
	frame.CreateAttr("x", strconv.Itoa(gx))
	frame.CreateAttr("y", strconv.Itoa(gy))
	frame.CreateAttr("width", strconv.Itoa(gw))
	frame.CreateAttr("height", strconv.Itoa(gh))
	frame.CreateAttr("fill", "none")
	frame.CreateAttr("stroke", "#b9bec7")
	frame.CreateAttr("stroke-width", "3")

	sun := svg.CreateElement("circle")
	sun.CreateAttr("cx", strconv.Itoa(gx+gw/4))
	sun.CreateAttr("cy", strconv.Itoa(gy+gh/4))
	sun.CreateAttr("r", strconv.Itoa(max(2, gw/12)))
	sun.CreateAttr("fill", "#b9bec7")

	hill := svg.CreateElement("path")
	hill.CreateAttr("d", fmt.Sprintf("M %d %d L %d %d L %d %d L %d %d",
		gx, gy+gh,
		gx+gw/3, gy+gh/2,
		gx+2*gw/3, gy+3*gh/4,
		gx+gw, gy+gh/3))
	hill.CreateAttr("fill", "none")
	hill.CreateAttr("stroke", "#b9bec7")
	hill.CreateAttr("stroke-width", "3")

	out, err := doc.WriteToBytes()
	if err != nil {
		// etree serialization of a freshly built document cannot fail.
		panic(err)
	}
	return out
}

// fitImage resizes src to cover, fit inside or fill the target rectangle.
func fitImage(src image.Image, w, h int, fit common.ImageFit) image.Image {
	switch fit {
	case common.ImageFitContain:
		return imaging.Fit(src, w, h, imaging.Lanczos)
	case common.ImageFitStretch:
		return imaging.Resize(src, w, h, imaging.Lanczos)
	default:
		return imaging.Fill(src, w, h, imaging.Center, imaging.Lanczos)
	}
}
