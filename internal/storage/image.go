package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

var (
	ErrImageTooLarge    = errors.New("image too large")
	ErrUnsupportedImage = errors.New("unsupported image")
)

type ImageOptions struct {
	MaxBytes    int64
	MaxWidth    int
	MaxHeight   int
	JPEGQuality int
}

func detectImageType(header []byte) string {
	switch {
	case len(header) < 12:
		return ""
	case header[0] == 0xFF && header[1] == 0xD8 && header[2] == 0xFF:
		return "jpeg"
	case bytes.HasPrefix(header, []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case bytes.HasPrefix(header, []byte("GIF87a")), bytes.HasPrefix(header, []byte("GIF89a")):
		return "gif"
	case bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WEBP")):
		return "webp"
	}
	return ""
}

// EncodeJPEG decodes a jpeg, png, gif or webp image, shrinks it to fit the bounds
// without upscaling and flattens it onto white as JPEG.
func EncodeJPEG(r io.Reader, opts ImageOptions) ([]byte, error) {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 10 << 20
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = 85
	}

	data, err := io.ReadAll(io.LimitReader(r, opts.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > opts.MaxBytes {
		return nil, ErrImageTooLarge
	}

	var img image.Image
	switch detectImageType(data[:min(len(data), 12)]) {
	case "jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "png":
		img, err = png.Decode(bytes.NewReader(data))
	case "gif":
		img, err = gif.Decode(bytes.NewReader(data))
	case "webp":
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		return nil, ErrUnsupportedImage
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrUnsupportedImage
	}
	tw, th := fitWithin(bounds.Dx(), bounds.Dy(), opts.MaxWidth, opts.MaxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return out.Bytes(), nil
}

func fitWithin(w, h, maxW, maxH int) (int, int) {
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && h > maxH {
		scale = min(scale, float64(maxH)/float64(h))
	}
	if scale == 1.0 {
		return w, h
	}
	return max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
}

// ImageStore re-encodes images before handing them to a FileStore.
type ImageStore struct {
	files    FileStore
	maxBytes int64
}

func NewImageStore(files FileStore, maxBytes int64) *ImageStore {
	return &ImageStore{files: files, maxBytes: maxBytes}
}

func (s *ImageStore) SaveImage(ctx context.Context, dir string, src io.Reader, maxWidth, maxHeight int) (string, error) {
	data, err := EncodeJPEG(src, ImageOptions{
		MaxBytes:  s.maxBytes,
		MaxWidth:  maxWidth,
		MaxHeight: maxHeight,
	})
	if err != nil {
		return "", err
	}

	key := path.Join(dir, uuid.NewString()+".jpg")
	if err := s.files.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "image/jpeg"); err != nil {
		return "", err
	}
	return key, nil
}

func (s *ImageStore) Delete(ctx context.Context, key string) error {
	return s.files.Delete(ctx, key)
}
