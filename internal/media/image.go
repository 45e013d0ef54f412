package media

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"mime"
	"net/http"
	"strings"

	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const WebPQuality = 70

// ImageKind selects the crop and bounding box an upload is normalized to.
type ImageKind string

const (
	ImageAvatar    ImageKind = "avatar"
	ImageCover     ImageKind = "cover"
	ImageThumbnail ImageKind = "thumbnail"
	ImageTweet     ImageKind = "tweet"
)

type imageShape struct {
	maxW, maxH int
	square     bool
}

var shapes = map[ImageKind]imageShape{
	ImageAvatar:    {maxW: 512, maxH: 512, square: true},
	ImageCover:     {maxW: 2048, maxH: 1152},
	ImageThumbnail: {maxW: 1280, maxH: 720},
	ImageTweet:     {maxW: 2048, maxH: 2048},
}

// EncodedImage is an upload re-encoded to WebP.
type EncodedImage struct {
	Data          []byte
	Width, Height int
}

// EncodeImage validates content as a still image and re-encodes it to WebP
// sized for kind. Rejected input yields a validation AppError.
func EncodeImage(content []byte, contentType string, kind ImageKind) (*EncodedImage, error) {
	shape, ok := shapes[kind]
	if !ok {
		return nil, models.NewValidationError("Unknown image kind")
	}
	if len(content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}

	detected := http.DetectContentType(content)
	if !isAllowedImageMIME(detected) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	source := decodedFormatToMime(format)
	if source == "" {
		return nil, models.NewValidationError("Unsupported image format")
	}
	if provided := normalizeContentType(contentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, source) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	img := decoded
	if shape.square {
		img = cropSquare(img)
	}
	img = resizeToFit(img, shape.maxW, shape.maxH)

	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(WebPQuality)}); err != nil {
		return nil, models.NewInternalError(err)
	}
	b := img.Bounds()
	return &EncodedImage{Data: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

func cropSquare(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h || w <= 0 || h <= 0 {
		return src
	}
	side := min(w, h)
	origin := image.Point{X: b.Min.X + (w-side)/2, Y: b.Min.Y + (h-side)/2}
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), src, origin, draw.Src)
	return dst
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scale := min(float64(maxWidth)/float64(w), float64(maxHeight)/float64(h))
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}
