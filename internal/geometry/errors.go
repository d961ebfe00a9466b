package geometry

import "errors"

var (
	ErrNonPositiveDimension = errors.New("dimensions must be positive")
	ErrMaskLength           = errors.New("face mask must have exactly 6 entries")
	ErrMaskValue            = errors.New("face mask entries must be 0 (conductive) or 1 (convective)")
)
