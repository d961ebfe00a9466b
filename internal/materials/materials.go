// Package materials is the reference table of wall material properties.
// The simulation core never sees material names; the config layer resolves
// them here into fully specified layers.
package materials

import (
	"fmt"
	"sort"
	"strings"
)

// Properties of a wall material. Thickness is not a material property and
// is supplied separately by the enclosure configuration.
type Properties struct {
	Conductivity float64 // W/m·K
	HeatCapacity float64 // J/kg·K
	Density      float64 // kg/m³
	Emissivity   float64
}

// Typical published values for common enclosure materials.
var table = map[string]Properties{
	"polystyrene":  {Conductivity: 0.04, HeatCapacity: 1300, Density: 25, Emissivity: 0.90},
	"pir":          {Conductivity: 0.022, HeatCapacity: 1400, Density: 32, Emissivity: 0.90},
	"mineral_wool": {Conductivity: 0.038, HeatCapacity: 840, Density: 70, Emissivity: 0.94},
	"wood":         {Conductivity: 0.12, HeatCapacity: 1700, Density: 500, Emissivity: 0.90},
	"plywood":      {Conductivity: 0.13, HeatCapacity: 1600, Density: 540, Emissivity: 0.86},
	"steel":        {Conductivity: 50.0, HeatCapacity: 490, Density: 7850, Emissivity: 0.25},
	"aluminium":    {Conductivity: 237.0, HeatCapacity: 900, Density: 2700, Emissivity: 0.09},
	"concrete":     {Conductivity: 1.4, HeatCapacity: 880, Density: 2300, Emissivity: 0.94},
}

// Lookup resolves a material by name, case-insensitively.
func Lookup(name string) (Properties, error) {
	props, ok := table[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Properties{}, fmt.Errorf("materials: unknown material %q (known: %s)",
			name, strings.Join(Names(), ", "))
	}
	return props, nil
}

// Names lists the known material names, sorted.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
