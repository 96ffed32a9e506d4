package models

import "strings"

// DisplayOrder is the preferred order of canonical labels on a poster.
var DisplayOrder = []string{
	"Engine",
	"Power",
	"Torque",
	"0-60 mph",
	"0-100 km/h",
	"Top Speed",
	"Drivetrain",
	"Transmission",
	"Displacement",
	"Curb weight",
}

var labelAliases = map[string]string{
	"engine":                  "Engine",
	"engine type":             "Engine",
	"engine model":            "Engine",
	"power":                   "Power",
	"max power":               "Power",
	"maximum power":           "Power",
	"power output":            "Power",
	"horsepower":              "Power",
	"torque":                  "Torque",
	"max torque":              "Torque",
	"maximum torque":          "Torque",
	"0-60 mph":                "0-60 mph",
	"0-60":                    "0-60 mph",
	"acceleration 0-60 mph":   "0-60 mph",
	"0-100 km/h":              "0-100 km/h",
	"0-100":                   "0-100 km/h",
	"acceleration 0-100":      "0-100 km/h",
	"acceleration 0-100 km/h": "0-100 km/h",
	"top speed":               "Top Speed",
	"max speed":               "Top Speed",
	"maximum speed":           "Top Speed",
	"drive":                   "Drivetrain",
	"drive type":              "Drivetrain",
	"drive wheels":            "Drivetrain",
	"drivetrain":              "Drivetrain",
	"transmission":            "Transmission",
	"gearbox":                 "Transmission",
	"displacement":            "Displacement",
	"engine displacement":     "Displacement",
	"curb weight":             "Curb weight",
	"kerb weight":             "Curb weight",
	"weight":                  "Curb weight",

	"двигатель":             "Engine",
	"мощность":              "Power",
	"крутящий момент":       "Torque",
	"разгон 0-100 км/ч":     "0-100 km/h",
	"максимальная скорость": "Top Speed",
	"привод":                "Drivetrain",
	"коробка передач":       "Transmission",
	"объем двигателя":       "Displacement",
	"масса":                 "Curb weight",
}

// CanonicalLabel maps a scraped label to its display label. Matching ignores
// case, surrounding space and a trailing colon.
func CanonicalLabel(label string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	key = strings.TrimSpace(strings.TrimSuffix(key, ":"))
	key = strings.Join(strings.Fields(key), " ")
	canon, ok := labelAliases[key]
	return canon, ok
}
