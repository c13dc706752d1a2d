package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// Максимальный размер стороны обложки после нормализации
const defaultMaxEdge = 1600

// Processor нормализует обложки перед загрузкой в хранилище:
// декодирует, уменьшает слишком большие изображения и перекодирует
type Processor struct {
	quality int
	maxEdge int
}

func New(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{quality: quality, maxEdge: defaultMaxEdge}
}

// Normalize декодирует изображение и возвращает его в пределах
// maxEdge по большей стороне. Ошибка означает, что тело файла не
// является валидным jpeg/png
func (p *Processor) Normalize(reader io.Reader) (io.Reader, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > p.maxEdge || bounds.Dy() > p.maxEdge {
		img = p.downscale(img)
	}

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}
	return &buf, nil
}

// downscale уменьшает изображение с сохранением пропорций
func (p *Processor) downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	ratio := float64(width) / float64(height)
	newWidth := p.maxEdge
	newHeight := p.maxEdge
	if ratio > 1 {
		newHeight = int(float64(p.maxEdge) / ratio)
	} else {
		newWidth = int(float64(p.maxEdge) * ratio)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
