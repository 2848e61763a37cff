package colorspace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/icc"
)

func TestComponentCounts(t *testing.T) {
	cases := []struct {
		v    *Variant
		want int
	}{
		{&Variant{Kind: DeviceGray}, 1},
		{&Variant{Kind: DeviceRGB}, 3},
		{&Variant{Kind: DeviceCMYK}, 4},
		{&Variant{Kind: CalGray}, 1},
		{&Variant{Kind: CalRGB}, 3},
		{&Variant{Kind: Lab}, 3},
		{&Variant{Kind: Indexed, Base: &Variant{Kind: DeviceRGB}}, 1},
		{&Variant{Kind: DeviceN, Names: []string{"Spot1", "Spot2"}}, 2},
	}
	for i, c := range cases {
		require.Equal(t, c.want, c.v.ComponentCount(), "case %d", i)
	}
}

// TestIndexedSamplerLiteralScenario is the literal §8 scenario's color
// side: hival=3, palette [black, red, green, blue], sampling each index
// must recover its palette entry through the DeviceRGB base sampler.
func TestIndexedSamplerLiteralScenario(t *testing.T) {
	base := &Variant{Kind: DeviceRGB}
	palette := []byte{
		0x00, 0x00, 0x00,
		0xFF, 0x00, 0x00,
		0x00, 0xFF, 0x00,
		0x00, 0x00, 0xFF,
	}
	v := &Variant{Kind: Indexed, Base: base, HiVal: 3, PaletteData: palette}

	s, err := DefaultResolver(v, icc.RelativeColorimetric)
	require.NoError(t, err)

	want := [][4]float32{
		{0, 0, 0, 1},
		{1, 0, 0, 1},
		{0, 1, 0, 1},
		{0, 0, 1, 1},
	}
	for idx, w := range want {
		require.Equal(t, w, s.Sample([]float32{float32(idx)}), "index %d", idx)
	}
}

func TestDeviceCMYKNaiveConversion(t *testing.T) {
	require.Equal(t, [4]float32{1, 1, 1, 1}, sampleDeviceCMYK([]float32{0, 0, 0, 0}), "white CMYK")
	require.Equal(t, [4]float32{0, 0, 0, 1}, sampleDeviceCMYK([]float32{0, 0, 0, 1}), "full black K")
}

func TestSeparationAppliesTintTransform(t *testing.T) {
	v := &Variant{
		Kind:      Separation,
		Names:     []string{"Spot"},
		Alternate: &Variant{Kind: DeviceGray},
		TintTransform: tintFunc(func(tints []float32) ([]float32, error) {
			return []float32{1 - tints[0]}, nil
		}),
	}
	s, err := DefaultResolver(v, icc.RelativeColorimetric)
	require.NoError(t, err)
	got := s.Sample([]float32{1})
	require.Equal(t, float32(0), got[0], "full tint -> gray")
}

type tintFunc func([]float32) ([]float32, error)

func (f tintFunc) Apply(t []float32) ([]float32, error) { return f(t) }

func TestLabSamplerWhiteIsNearWhite(t *testing.T) {
	v := &Variant{Kind: Lab}
	s := labSampler{v}
	got := s.Sample([]float32{100, 0, 0})
	for i, c := range got[:3] {
		require.LessOrEqual(t, math.Abs(float64(c-1)), 0.05, "L=100,a=0,b=0 channel %d", i)
	}
}
