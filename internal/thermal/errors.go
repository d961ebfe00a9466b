package thermal

import "errors"

var (
	ErrNonPositiveThickness    = errors.New("layer thickness must be positive")
	ErrNonPositiveConductivity = errors.New("layer conductivity must be positive")
	ErrLayerCount              = errors.New("wall must have one or two material layers")
	ErrZeroWallThermalMass     = errors.New("wall heat capacity times mass must be non-zero")
	ErrZeroBatteryThermalMass  = errors.New("battery heat capacity times mass must be non-zero")
)
