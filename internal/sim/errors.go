package sim

import "errors"

var (
	ErrNonPositiveBucket      = errors.New("bucket period must be positive")
	ErrInvalidEmissivity      = errors.New("emissivity must be in (0, 1]")
	ErrInvalidLossFraction    = errors.New("throughput loss fraction must be in [0, 1)")
	ErrNegativeHeaterPower    = errors.New("heater power must not be negative")
	ErrInvalidBatteryTransfer = errors.New("heater battery transfer must be in [0, 1]")
	ErrNegativeHeaterMinOn    = errors.New("heater minimum-on duration must not be negative")
	ErrEmptySeries            = errors.New("ambient series is empty")
	ErrNonFiniteTemperature   = errors.New("non-finite temperature")
)
