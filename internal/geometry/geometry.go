// Package geometry derives the heat-transfer surface areas of the battery
// and its enclosing box from their dimensions and per-face transfer masks.
package geometry

import "github.com/Agrid-Dev/battbox/internal/heatflow"

// FaceCount is the number of faces of a cuboid; masks must have exactly
// this many entries.
const FaceCount = 6

// Face transfer types.
const (
	FaceConductive = 0 // solid contact (ground or wall)
	FaceConvective = 1 // air contact
)

// Dimensions of a cuboid in meters.
type Dimensions struct {
	LengthM float64
	WidthM  float64
	HeightM float64
}

func (d Dimensions) Validate() error {
	if d.LengthM <= 0 || d.WidthM <= 0 || d.HeightM <= 0 {
		return ErrNonPositiveDimension
	}
	return nil
}

// Volume returns the cuboid volume in m³.
func (d Dimensions) Volume() float64 {
	return heatflow.Volume(d.LengthM, d.WidthM, d.HeightM)
}

// FaceMask marks each face of a cuboid as conductive (0) or convective (1),
// in the order bottom, top, long side, long side, short side, short side.
type FaceMask []int

// DefaultFaceMask returns the standard mounting mask: every face convective
// except the bottom, which rests on a solid surface.
func DefaultFaceMask() FaceMask {
	return FaceMask{0, 1, 1, 1, 1, 1}
}

func (m FaceMask) Validate() error {
	if len(m) != FaceCount {
		return ErrMaskLength
	}
	for _, f := range m {
		if f != FaceConductive && f != FaceConvective {
			return ErrMaskValue
		}
	}
	return nil
}

// FaceAreas returns the six face areas of a cuboid in mask order.
func FaceAreas(d Dimensions) [FaceCount]float64 {
	lengthWidth := d.LengthM * d.WidthM   // bottom / top
	heightLength := d.HeightM * d.LengthM // long sides
	heightWidth := d.HeightM * d.WidthM   // short sides
	return [FaceCount]float64{
		lengthWidth, lengthWidth,
		heightLength, heightLength,
		heightWidth, heightWidth,
	}
}

// Areas holds the resolved heat-transfer surface areas in m².
type Areas struct {
	BatteryConductive float64
	BatteryConvective float64
	AirGapConvective  float64
	BoxConductive     float64
	BoxConvective     float64
}

// TotalBattery returns the full battery surface participating in exchange.
func (a Areas) TotalBattery() float64 {
	return a.BatteryConductive + a.BatteryConvective
}

// TotalBox returns the full box surface participating in exchange.
func (a Areas) TotalBox() float64 {
	return a.BoxConductive + a.BoxConvective
}

// HeatTransferAreas resolves the conductive, convective and enclosed air-gap
// areas for the battery/box pair. A nil mask falls back to DefaultFaceMask.
// When the battery fills the box completely every battery face is treated as
// touching the box wall.
func HeatTransferAreas(battery, box Dimensions, batteryMask, boxMask FaceMask) (Areas, error) {
	if err := battery.Validate(); err != nil {
		return Areas{}, err
	}
	if err := box.Validate(); err != nil {
		return Areas{}, err
	}
	if batteryMask == nil {
		batteryMask = DefaultFaceMask()
	}
	if boxMask == nil {
		boxMask = DefaultFaceMask()
	}
	if err := batteryMask.Validate(); err != nil {
		return Areas{}, err
	}
	if err := boxMask.Validate(); err != nil {
		return Areas{}, err
	}

	if battery.Volume() == box.Volume() {
		batteryMask = FaceMask{0, 0, 0, 0, 0, 0}
	}

	batteryFaces := FaceAreas(battery)
	boxFaces := FaceAreas(box)

	var areas Areas
	for i, transfer := range batteryMask {
		if transfer == FaceConductive {
			areas.BatteryConductive += batteryFaces[i]
		} else {
			areas.BatteryConvective += batteryFaces[i]
		}
	}
	for i, transfer := range boxMask {
		if transfer == FaceConductive {
			areas.BoxConductive += boxFaces[i]
		} else {
			areas.BoxConvective += boxFaces[i]
		}
	}

	// The enclosed air gap sees the full box face where the battery face is
	// exposed to air, and only the ring around the battery where the battery
	// face is in contact.
	for i := range boxFaces {
		if batteryMask[i] == FaceConductive {
			areas.AirGapConvective += boxFaces[i] - batteryFaces[i]
		} else {
			areas.AirGapConvective += boxFaces[i]
		}
	}

	return areas, nil
}
