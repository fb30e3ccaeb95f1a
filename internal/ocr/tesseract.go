// Package ocr reads points badges with Tesseract when template matching
// finds no digit.
package ocr

import (
	"fmt"
	"image"
	"strconv"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// DigitChars is the Tesseract whitelist for points badges.
const DigitChars = "0123456789"

// minHeight is the badge height Tesseract is given after upscaling.
const minHeight = 96

// Engine reads digit strings using Tesseract. The underlying client is not
// reentrant, so calls are serialized.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client

	// Verbose prints failed reads.
	Verbose bool
}

// NewEngine creates a new OCR engine restricted to digits.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Numbers aren't dictionary words
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	if err := client.SetWhitelist(DigitChars); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// ReadDigits returns the number printed on badge, if Tesseract reads one.
func (e *Engine) ReadDigits(badge image.Image) (int, bool) {
	text, err := e.Recognize(badge)
	if err != nil {
		if e.Verbose {
			fmt.Printf("[OCR] %v\n", err)
		}
		return 0, false
	}
	return ParseDigits(text)
}

// Recognize returns the raw text Tesseract reads from img.
func (e *Engine) Recognize(img image.Image) (string, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return "", fmt.Errorf("empty image")
	}

	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return "", fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	processed := preprocessForOCR(src)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

// ParseDigits turns Tesseract output into a points value. Whitespace inside
// the number is dropped; anything else non-numeric rejects the read.
func ParseDigits(text string) (int, bool) {
	s := strings.Join(strings.Fields(text), "")
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// preprocessForOCR upscales, binarizes and inverts the badge so the digits
// come out dark on light.
func preprocessForOCR(region gocv.Mat) gocv.Mat {
	var scaled gocv.Mat
	if h := region.Rows(); h < minHeight {
		scale := float64(minHeight) / float64(h)
		scaled = gocv.NewMat()
		gocv.Resize(region, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		scaled = region.Clone()
	}

	gray := gocv.NewMat()
	gocv.CvtColor(scaled, &gray, gocv.ColorBGRToGray)
	scaled.Close()

	binary := gocv.NewMat()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	gray.Close()

	// Badges carry light digits on a dark background
	whiteRatio := float64(gocv.CountNonZero(binary)) / float64(binary.Rows()*binary.Cols())
	if whiteRatio < 0.5 {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()
	return result
}
