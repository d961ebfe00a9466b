package sim

import "time"

// Record is the per-timestep output: the three temperatures plus the full
// ledger of directional energy flows in Joules. "To" flows are positive in
// the direction named; "from" flows are the same quantity with the sign
// flipped, kept so downstream energy-balance audits can sum either side.
type Record struct {
	Timestamp       time.Time
	AmbientTempC    float64
	RelHumidityPerc float64

	BatteryTempC  float64
	BoxInnerTempC float64
	BoxOuterTempC float64

	BatteryHeaterInputJ float64
	BatteryLossesInputJ float64
	BatteryNetEnergyJ   float64

	BatteryCondToBoxInnerJ float64
	BatteryConvToBoxInnerJ float64
	BatteryRadiToBoxInnerJ float64

	HeaterToBatteryJ  float64
	HeaterToBoxInnerJ float64

	BoxInnerNetEnergyJ     float64
	BoxInnerCondToBatteryJ float64
	BoxInnerConvToBatteryJ float64
	BoxInnerRadiToBatteryJ float64
	BoxInnerToBoxOuterJ    float64

	BoxOuterNetEnergyJ   float64
	BoxOuterToBoxInnerJ  float64
	BoxOuterCondToEnvJ   float64
	BoxOuterConvToEnvJ   float64
	BoxOuterRadiToEnvJ   float64
	BoxOuterCondFromEnvJ float64
	BoxOuterConvFromEnvJ float64
	BoxOuterRadiFromEnvJ float64
}
