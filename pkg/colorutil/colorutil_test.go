package colorutil

import (
	"math"
	"testing"
)

func TestFromRGB(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    HSV
	}{
		{"red", 255, 0, 0, HSV{H: 0, S: 1, V: 1, Defined: true}},
		{"green", 0, 255, 0, HSV{H: 120, S: 1, V: 1, Defined: true}},
		{"blue", 0, 0, 255, HSV{H: 240, S: 1, V: 1, Defined: true}},
		{"magenta", 255, 0, 255, HSV{H: 300, S: 1, V: 1, Defined: true}},
		{"white", 255, 255, 255, HSV{H: 0, S: 0, V: 1}},
		{"black", 0, 0, 0, HSV{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromRGB(tt.r, tt.g, tt.b)
			if got.Defined != tt.want.Defined ||
				math.Abs(got.H-tt.want.H) > 1e-9 ||
				math.Abs(got.S-tt.want.S) > 1e-9 ||
				math.Abs(got.V-tt.want.V) > 1e-9 {
				t.Errorf("FromRGB(%d,%d,%d) = %+v, want %+v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestRGBToHSVOpenCVScale(t *testing.T) {
	h, s, v := RGBToHSV(0, 0, 255)
	if h != 120 || s != 255 || v != 255 {
		t.Errorf("blue = (%v, %v, %v), want (120, 255, 255)", h, s, v)
	}
}

func TestHueDistance(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{10, 350, 20},
		{350, 10, 20},
		{0, 180, 180},
		{90, 300, 150},
	}
	for _, tt := range tests {
		if got := HueDistance(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("HueDistance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestHueProximity(t *testing.T) {
	tests := []struct {
		name string
		c    HSV
		base float64
		want uint8
	}{
		{"at base", FromRGB(255, 0, 0), 0, 255},
		{"wraps", HSV{H: 342, S: 1, V: 1, Defined: true}, 0, 204},
		{"45 away", HSV{H: 165, S: 1, V: 1, Defined: true}, 120, 128},
		{"far", FromRGB(0, 0, 255), 0, 0},
		{"grey", FromRGB(128, 128, 128), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HueProximity(tt.c, tt.base); got != tt.want {
				t.Errorf("HueProximity = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInverseSaturation(t *testing.T) {
	if got := InverseSaturation(FromRGB(128, 128, 128)); got != 255 {
		t.Errorf("grey = %d, want 255", got)
	}
	if got := InverseSaturation(FromRGB(255, 0, 0)); got != 0 {
		t.Errorf("red = %d, want 0", got)
	}
}
