package replay

import "errors"

var ErrThresholdOutOfRange = errors.New("heater threshold out of physical range (-40..60 °C)")
