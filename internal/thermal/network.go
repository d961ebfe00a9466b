// Package thermal builds the fixed resistance/mass network of the battery
// enclosure from its geometry and wall materials. The network is computed
// once per run and read-only afterwards.
package thermal

import (
	"github.com/Agrid-Dev/battbox/internal/geometry"
	"github.com/Agrid-Dev/battbox/internal/heatflow"
)

// Layer describes one wall material layer.
type Layer struct {
	ThicknessM   float64
	Conductivity float64 // W/m·K
	HeatCapacity float64 // J/kg·K
	Density      float64 // kg/m³
	Emissivity   float64
}

func (l Layer) Validate() error {
	if l.ThicknessM <= 0 {
		return ErrNonPositiveThickness
	}
	if l.Conductivity <= 0 {
		return ErrNonPositiveConductivity
	}
	return nil
}

// Params is the static configuration the network is built from. Layers holds
// the wall sandwich with the inner liner first; a single layer is split into
// two identical half-thickness layers.
type Params struct {
	Battery     geometry.Dimensions
	Box         geometry.Dimensions
	BatteryMask geometry.FaceMask
	BoxMask     geometry.FaceMask
	Layers      []Layer

	BatteryMassKg       float64
	BatteryHeatCapacity float64 // J/kg·K
}

// Network holds every derived scalar the simulation engine needs. Immutable
// once built.
type Network struct {
	TotalBatteryAreaM2 float64
	TotalBoxAreaM2     float64
	AirGapAreaM2       float64

	BatteryConductiveRes  float64 // battery face → inner wall, K/W
	BatteryConvectiveRes  float64 // battery face → enclosed air, K/W
	BoxInnerConvectiveRes float64 // enclosed air → inner wall, K/W
	BoxCompositeRes       float64 // inner wall → outer wall through all layers, K/W
	BoxOuterConductiveRes float64 // outer wall → ground contact, K/W
	BoxOuterConvectiveRes float64 // outer wall → ambient air, K/W

	InnerEmissivity float64
	OuterEmissivity float64

	WallMassKg       float64
	WallHeatCapacity float64
	BatteryMassKg    float64
	BatteryHeatCap   float64
}

// Build resolves the geometry and combines it with the material layers into
// the resistance/mass network. All validation of the static configuration
// happens here, before the time loop ever starts.
func Build(p Params) (Network, error) {
	areas, err := geometry.HeatTransferAreas(p.Battery, p.Box, p.BatteryMask, p.BoxMask)
	if err != nil {
		return Network{}, err
	}

	inner, outer, err := sandwich(p.Layers)
	if err != nil {
		return Network{}, err
	}

	totalBox := areas.TotalBox()
	totalBattery := areas.TotalBattery()

	// Even area split between the two layers of the sandwich.
	wallMass := totalBox/2*inner.Density*inner.ThicknessM +
		totalBox/2*outer.Density*outer.ThicknessM
	wallHeatCapacity := (inner.HeatCapacity + outer.HeatCapacity) / 2

	if wallMass*wallHeatCapacity == 0 {
		return Network{}, ErrZeroWallThermalMass
	}
	if p.BatteryMassKg*p.BatteryHeatCapacity == 0 {
		return Network{}, ErrZeroBatteryThermalMass
	}

	n := Network{
		TotalBatteryAreaM2: totalBattery,
		TotalBoxAreaM2:     totalBox,
		AirGapAreaM2:       areas.AirGapConvective,

		BatteryConductiveRes: heatflow.ConductiveResistance(
			inner.ThicknessM, inner.Conductivity, areas.BatteryConductive),
		BatteryConvectiveRes: heatflow.ConvectiveResistance(
			heatflow.ConvectionCoefficient, areas.BatteryConvective),
		BoxInnerConvectiveRes: heatflow.ConvectiveResistance(
			heatflow.ConvectionCoefficient, areas.AirGapConvective),
		BoxCompositeRes: compositeResistance(inner, outer, totalBox),
		BoxOuterConductiveRes: heatflow.ConductiveResistance(
			outer.ThicknessM, outer.Conductivity, areas.BoxConductive),
		BoxOuterConvectiveRes: heatflow.ConvectiveResistance(
			heatflow.ConvectionCoefficient, areas.BoxConvective),

		InnerEmissivity: inner.Emissivity,
		OuterEmissivity: outer.Emissivity,

		WallMassKg:       wallMass,
		WallHeatCapacity: wallHeatCapacity,
		BatteryMassKg:    p.BatteryMassKg,
		BatteryHeatCap:   p.BatteryHeatCapacity,
	}
	return n, nil
}

// sandwich normalizes the supplied layers into an (inner, outer) pair. A
// single layer is split symmetrically into two half-thickness layers with
// identical properties.
func sandwich(layers []Layer) (inner, outer Layer, err error) {
	switch len(layers) {
	case 1:
		half := layers[0]
		half.ThicknessM /= 2
		if err := half.Validate(); err != nil {
			return Layer{}, Layer{}, err
		}
		return half, half, nil
	case 2:
		for _, l := range layers {
			if err := l.Validate(); err != nil {
				return Layer{}, Layer{}, err
			}
		}
		return layers[0], layers[1], nil
	default:
		return Layer{}, Layer{}, ErrLayerCount
	}
}

// compositeResistance is the series conductive resistance of the full wall
// sandwich over the combined box area.
func compositeResistance(inner, outer Layer, areaM2 float64) float64 {
	return heatflow.CompositeConductiveResistance(areaM2,
		heatflow.Slab{ThicknessM: inner.ThicknessM, Conductivity: inner.Conductivity},
		heatflow.Slab{ThicknessM: outer.ThicknessM, Conductivity: outer.Conductivity},
	)
}
