// Package phash computes the composite perceptual hash used to recognize item
// art, and the distance between two such hashes.
//
// A card is split into seven single-channel images (red, green, blue, hue
// proximity to red/green/blue, inverse saturation). Each channel is hashed
// with a DCT-preprocessed gradient hash; the seven codes together form the
// card's hash.
package phash

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"strings"

	"card-scanner/pkg/colorutil"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Hash geometry: each channel code is HashWidth x HashHeight bits.
const (
	HashWidth  = 8
	HashHeight = 8

	// Channels per composite hash.
	Channels = 7

	separator = "|"
)

// Base hues (degrees) of the three hue-proximity channels.
var baseHues = [3]float64{0, 120, 240}

// Code is one channel's bit string, most significant bit first.
type Code []byte

// Hash is a composite hash: one Code per channel, in channel order.
type Hash []Code

// String encodes the hash as base64 codes joined by "|".
func (h Hash) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = base64.StdEncoding.EncodeToString(c)
	}
	return strings.Join(parts, separator)
}

// Parse decodes the textual form produced by Hash.String.
func Parse(s string) (Hash, error) {
	if s == "" {
		return nil, fmt.Errorf("empty hash")
	}
	parts := strings.Split(s, separator)
	h := make(Hash, len(parts))
	for i, p := range parts {
		c, err := base64.StdEncoding.DecodeString(p)
		if err != nil {
			return nil, fmt.Errorf("hash component %d: %w", i, err)
		}
		h[i] = c
	}
	return h, nil
}

// Compute hashes a normalized card.
func Compute(card image.Image) Hash {
	h := make(Hash, 0, Channels)
	for _, ch := range SplitChannels(card) {
		h = append(h, GradientHash(ch))
	}
	return h
}

// SplitChannels derives the seven single-channel images of a card.
func SplitChannels(card image.Image) [Channels]*image.Gray {
	b := card.Bounds()
	w, h := b.Dx(), b.Dy()

	var out [Channels]*image.Gray
	for i := range out {
		out[i] = image.NewGray(image.Rect(0, 0, w, h))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(card.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			hsv := colorutil.FromRGB(c.R, c.G, c.B)
			off := y*w + x

			out[0].Pix[off] = c.R
			out[1].Pix[off] = c.G
			out[2].Pix[off] = c.B
			for i, base := range baseHues {
				out[3+i].Pix[off] = colorutil.HueProximity(hsv, base)
			}
			out[6].Pix[off] = colorutil.InverseSaturation(hsv)
		}
	}
	return out
}

// GradientHash computes a DCT-preprocessed gradient hash of one channel.
//
// The channel is shrunk to twice the size of the gradient grid, transformed
// with a 2-D DCT-II, and the low-frequency (HashWidth+1) x HashHeight corner
// is kept. Each bit records whether a coefficient is smaller than its right
// neighbour.
func GradientHash(ch *image.Gray) Code {
	gw, gh := HashWidth+1, HashHeight
	sw, sh := 2*gw, 2*gh

	small := imaging.Resize(ch, sw, sh, imaging.Lanczos)
	grid := make([][]float64, sh)
	for y := 0; y < sh; y++ {
		grid[y] = make([]float64, sw)
		for x := 0; x < sw; x++ {
			grid[y][x] = float64(small.NRGBAAt(x, y).R)
		}
	}

	coef := dct2(grid, sw, sh)

	code := make(Code, (HashWidth*HashHeight+7)/8)
	bit := 0
	for y := 0; y < gh; y++ {
		for x := 0; x < HashWidth; x++ {
			if coef[y][x] < coef[y][x+1] {
				code[bit/8] |= 1 << (7 - bit%8)
			}
			bit++
		}
	}
	return code
}

// dct2 applies a separable DCT-II over rows then columns.
func dct2(grid [][]float64, w, h int) [][]float64 {
	rowDCT := fourier.NewDCT(w)
	colDCT := fourier.NewDCT(h)

	out := make([][]float64, h)
	for y := 0; y < h; y++ {
		out[y] = rowDCT.Transform(make([]float64, w), grid[y])
	}

	col := make([]float64, h)
	res := make([]float64, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = out[y][x]
		}
		colDCT.Transform(res, col)
		for y := 0; y < h; y++ {
			out[y][x] = res[y]
		}
	}
	return out
}
