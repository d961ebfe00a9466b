package geometry

import (
	"errors"
	"math"
	"testing"
)

func TestDimensionsValidate(t *testing.T) {
	tests := []struct {
		name string
		dims Dimensions
		want error
	}{
		{
			name: "Valid dimensions",
			dims: Dimensions{LengthM: 0.6, WidthM: 0.4, HeightM: 0.4},
			want: nil,
		},
		{
			name: "Zero height",
			dims: Dimensions{LengthM: 0.6, WidthM: 0.4},
			want: ErrNonPositiveDimension,
		},
		{
			name: "Negative width",
			dims: Dimensions{LengthM: 0.6, WidthM: -0.4, HeightM: 0.4},
			want: ErrNonPositiveDimension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dims.Validate(); !errors.Is(got, tt.want) {
				t.Errorf("Got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFaceMaskValidate(t *testing.T) {
	tests := []struct {
		name string
		mask FaceMask
		want error
	}{
		{
			name: "Default mask",
			mask: DefaultFaceMask(),
			want: nil,
		},
		{
			name: "All conductive",
			mask: FaceMask{0, 0, 0, 0, 0, 0},
			want: nil,
		},
		{
			name: "Too short",
			mask: FaceMask{0, 1, 1},
			want: ErrMaskLength,
		},
		{
			name: "Too long",
			mask: FaceMask{0, 1, 1, 1, 1, 1, 1},
			want: ErrMaskLength,
		},
		{
			name: "Unknown value",
			mask: FaceMask{0, 1, 2, 1, 1, 1},
			want: ErrMaskValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mask.Validate(); !errors.Is(got, tt.want) {
				t.Errorf("Got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFaceAreas(t *testing.T) {
	faces := FaceAreas(Dimensions{LengthM: 2, WidthM: 1, HeightM: 0.5})
	want := [FaceCount]float64{2, 2, 1, 1, 0.5, 0.5}
	if faces != want {
		t.Errorf("Got %v, want %v", faces, want)
	}
}

func TestHeatTransferAreasDefaultMasks(t *testing.T) {
	battery := Dimensions{LengthM: 0.4, WidthM: 0.2, HeightM: 0.2}
	box := Dimensions{LengthM: 1, WidthM: 0.5, HeightM: 0.5}

	areas, err := HeatTransferAreas(battery, box, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	assertClose(t, "BatteryConductive", areas.BatteryConductive, 0.08)
	assertClose(t, "BatteryConvective", areas.BatteryConvective, 0.32)
	assertClose(t, "BoxConductive", areas.BoxConductive, 0.5)
	assertClose(t, "BoxConvective", areas.BoxConvective, 2.0)
	// Bottom face contributes the ring around the battery, the rest in full.
	assertClose(t, "AirGapConvective", areas.AirGapConvective, 2.42)
	assertClose(t, "TotalBattery", areas.TotalBattery(), 0.4)
	assertClose(t, "TotalBox", areas.TotalBox(), 2.5)
}

func TestHeatTransferAreasBatteryFillsBox(t *testing.T) {
	dims := Dimensions{LengthM: 0.6, WidthM: 0.4, HeightM: 0.4}

	areas, err := HeatTransferAreas(dims, dims, DefaultFaceMask(), nil)
	if err != nil {
		t.Fatal(err)
	}

	// Equal volumes force every battery face into wall contact regardless of
	// the supplied mask.
	if areas.BatteryConvective != 0 {
		t.Errorf("BatteryConvective = %v, want 0", areas.BatteryConvective)
	}
	assertClose(t, "BatteryConductive", areas.BatteryConductive, areas.TotalBattery())
	if areas.AirGapConvective != 0 {
		t.Errorf("AirGapConvective = %v, want 0", areas.AirGapConvective)
	}
}

func TestHeatTransferAreasErrors(t *testing.T) {
	battery := Dimensions{LengthM: 0.4, WidthM: 0.2, HeightM: 0.2}
	box := Dimensions{LengthM: 1, WidthM: 0.5, HeightM: 0.5}

	tests := []struct {
		name        string
		battery     Dimensions
		batteryMask FaceMask
		boxMask     FaceMask
		want        error
	}{
		{
			name:        "Battery mask too short",
			battery:     battery,
			batteryMask: FaceMask{0, 1},
			want:        ErrMaskLength,
		},
		{
			name:    "Box mask bad value",
			battery: battery,
			boxMask: FaceMask{0, 1, 1, 1, 1, 7},
			want:    ErrMaskValue,
		},
		{
			name:    "Degenerate battery",
			battery: Dimensions{},
			want:    ErrNonPositiveDimension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := HeatTransferAreas(tt.battery, box, tt.batteryMask, tt.boxMask)
			if !errors.Is(got, tt.want) {
				t.Errorf("Got %v, want %v", got, tt.want)
			}
		})
	}
}

func assertClose(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}
