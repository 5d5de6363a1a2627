package sample

import (
	"math"
	"testing"

	"github.com/matzehuels/glyphdust/pkg/errors"
)

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-4 }

func TestToneApply(t *testing.T) {
	red := &[3]uint8{255, 0, 0}
	tests := []struct {
		name string
		tone Tone
		in   [3]uint8
		want [3]float32
	}{
		{"neutral black", Tone{}, [3]uint8{0, 0, 0}, [3]float32{0, 0, 0}},
		{"neutral mid", Tone{}, [3]uint8{128, 128, 128}, [3]float32{0.75294, 0.75294, 0.75294}},
		{"boost saturates", Tone{}, [3]uint8{200, 255, 170}, [3]float32{1, 1, 1}},
		{"brightness", Tone{Brightness: 50}, [3]uint8{0, 50, 100}, [3]float32{0.29412, 0.58824, 0.88235}},
		{"darken clamps", Tone{Brightness: -100}, [3]uint8{50, 50, 50}, [3]float32{0, 0, 0}},
		{"contrast mid fixed", Tone{Contrast: 100}, [3]uint8{128, 128, 128}, [3]float32{0.75294, 0.75294, 0.75294}},
		{"contrast spreads", Tone{Contrast: 100}, [3]uint8{100, 100, 100}, [3]float32{0.37943, 0.37943, 0.37943}},
		{"tint", Tone{Tint: red}, [3]uint8{255, 255, 255}, [3]float32{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := tt.tone.Apply(tt.in[0], tt.in[1], tt.in[2])
			got := [3]float32{r, g, b}
			for i := range got {
				if !near(got[i], tt.want[i]) {
					t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
					break
				}
			}
		})
	}
}

func TestToneRange(t *testing.T) {
	tones := []Tone{{}, {Contrast: 100, Brightness: 100}, {Contrast: -100, Brightness: -100}}
	for _, tone := range tones {
		for v := 0; v < 256; v += 5 {
			r, _, _ := tone.Apply(uint8(v), 0, 0)
			if r < 0 || r > 1 {
				t.Fatalf("%+v.Apply(%d) = %v, want within [0, 1]", tone, v, r)
			}
		}
	}
}

func TestToneValidate(t *testing.T) {
	tests := []struct {
		tone Tone
		wantErr bool
	}{
		{Tone{}, false},
		{Tone{Contrast: 100, Brightness: -100}, false},
		{Tone{Contrast: 101}, true},
		{Tone{Brightness: -100.5}, true},
		{Tone{Contrast: math.NaN()}, true},
	}
	for _, tt := range tests {
		err := tt.tone.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%+v.Validate() error = %v, wantErr %v", tt.tone, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
		}
	}
}

func TestParseTint(t *testing.T) {
	tint, err := ParseTint("")
	if err != nil || tint != nil {
		t.Errorf(`ParseTint("") = %v, %v, want nil, nil`, tint, err)
	}
	tint, err = ParseTint("#ff8000")
	if err != nil || *tint != [3]uint8{255, 128, 0} {
		t.Errorf(`ParseTint("#ff8000") = %v, %v`, tint, err)
	}
	if _, err := ParseTint("orange"); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf(`ParseTint("orange") error = %v, want %v`, err, errors.ErrCodeInvalidColor)
	}
}
