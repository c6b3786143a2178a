// Package units provides shared constants, conversion and display formatting
// for volume units
package units

import "fmt"

// Unit constants
const (
	M3  = "m3"
	CM3 = "cm3"
	MM3 = "mm3"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{M3, CM3, MM3}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "m3, cm3, mm3"
}

// ConvertVolume converts a volume from cubic metres to the target units.
// Measurements are produced in m³ (cubic scene units).
func ConvertVolume(volumeM3 float64, targetUnits string) float64 {
	switch targetUnits {
	case CM3:
		return volumeM3 * 1e6
	case MM3:
		return volumeM3 * 1e9
	case M3:
		return volumeM3
	default:
		return volumeM3 // default to m³ if unknown unit
	}
}

// FormatVolume renders a volume with an auto-selected unit so tiny fastener
// volumes stay readable next to structural parts.
func FormatVolume(volumeM3 float64) string {
	switch {
	case volumeM3 < 1e-6:
		return fmt.Sprintf("%.4f mm³", ConvertVolume(volumeM3, MM3))
	case volumeM3 < 1.0:
		return fmt.Sprintf("%.4f cm³", ConvertVolume(volumeM3, CM3))
	default:
		return fmt.Sprintf("%.4f m³", volumeM3)
	}
}
