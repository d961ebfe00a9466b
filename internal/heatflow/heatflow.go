// Package heatflow provides the pure heat-transfer primitives used by the
// thermal network builder and the simulation engine. All functions are
// side-effect free; resistance formulas assume positive areas (a zero area
// yields an infinite resistance and therefore zero flow downstream).
package heatflow

import (
	"math"
	"time"
)

const (
	// ConvectionCoefficient is the fixed convective heat transfer
	// coefficient applied to every convective surface, in W/m²K.
	ConvectionCoefficient = 5.0

	stefanBoltzmann = 5.67e-8 // W/m²K⁴

	celsiusToKelvin = 273.15
)

// ConductiveResistance returns the conductive thermal resistance in K/W
// of a slab: R = d / (k·A).
func ConductiveResistance(thicknessM, conductivity, areaM2 float64) float64 {
	return thicknessM / (conductivity * areaM2)
}

// ConvectiveResistance returns the convective thermal resistance in K/W
// of a surface: R = 1 / (h·A).
func ConvectiveResistance(coefficient, areaM2 float64) float64 {
	return 1 / (coefficient * areaM2)
}

// Slab is a thickness/conductivity pair for composite walls.
type Slab struct {
	ThicknessM   float64
	Conductivity float64
}

// CompositeConductiveResistance returns the series conductive resistance in
// K/W of stacked slabs sharing the same area.
func CompositeConductiveResistance(areaM2 float64, slabs ...Slab) float64 {
	var total float64
	for _, s := range slabs {
		total += ConductiveResistance(s.ThicknessM, s.Conductivity, areaM2)
	}
	return total
}

// Flow returns the energy in Joules conducted or convected across a
// resistance over dt. Positive when heat leaves tHot.
func Flow(tHotC, tColdC, resistance float64, dt time.Duration) float64 {
	powerW := (tHotC - tColdC) / resistance
	return powerW * dt.Seconds()
}

// RadiativeFlow returns the radiative energy exchange in Joules between a
// grey surface and its surroundings over dt, per the Stefan-Boltzmann law.
// Positive when the surface is warmer than the surroundings.
func RadiativeFlow(areaM2, emissivity, tSelfC, tOtherC float64, dt time.Duration) float64 {
	tSelfK := tSelfC + celsiusToKelvin
	tOtherK := tOtherC + celsiusToKelvin
	powerW := stefanBoltzmann * emissivity * areaM2 *
		(math.Pow(tSelfK, 4) - math.Pow(tOtherK, 4))
	return powerW * dt.Seconds()
}

// EnclosedRadiativeFlow returns the radiative exchange in Joules between two
// concentric grey surfaces (inner body inside an enclosing wall) over dt,
// using the effective emissivity of the pair.
func EnclosedRadiativeFlow(aInnerM2, aOuterM2, eInner, eOuter, tInnerC, tOuterC float64, dt time.Duration) float64 {
	effective := 1 / ((1 / eInner) + (aInnerM2/aOuterM2)*(1/eOuter-1))
	return RadiativeFlow(aInnerM2, effective, tInnerC, tOuterC, dt)
}

// ApplyDelta returns the temperature after absorbing energyJ into a body
// with the given heat capacity and mass. The caller guarantees
// heatCapacity*massKg is non-zero; the network builder validates this once
// before any stepping starts.
func ApplyDelta(tempC, energyJ, heatCapacity, massKg float64) float64 {
	return tempC + energyJ/(heatCapacity*massKg)
}

// Volume returns the volume of a cuboid in m³.
func Volume(lengthM, widthM, heightM float64) float64 {
	return lengthM * widthM * heightM
}

// Mass returns the mass in kg of a volume of material.
func Mass(densityKgM3, volumeM3 float64) float64 {
	return densityKgM3 * volumeM3
}

// MoistAirHeatCapacity returns the specific heat capacity of moist air in
// J/(kg·K) for a temperature in °C and relative humidity in percent, using
// a Magnus-form saturation vapor pressure approximation.
func MoistAirHeatCapacity(tempC, relHumidityPerc float64) float64 {
	const (
		cpDryAir     = 1005.0 // J/(kg·K)
		cpWaterVapor = 1860.0 // J/(kg·K)
		pressureHPa  = 1013.25
	)

	saturationHPa := 6.112 * math.Exp((17.67*tempC)/(tempC+243.5))
	vaporHPa := (relHumidityPerc / 100) * saturationHPa
	mixingRatio := 0.622 * vaporHPa / (pressureHPa - vaporHPa)

	return cpDryAir + mixingRatio*cpWaterVapor
}
