// SPDX-License-Identifier: EPL-2.0

package reverb

import (
	"fmt"
	"strings"
)

// DefaultPresetWetDryMix is the wet/dry mix of the "Default" preset. The raw
// processor default is fully wet, which is unusable as a starting point.
const DefaultPresetWetDryMix = 20

// Preset is a named native parameter set.
type Preset struct {
	Name       string
	Parameters Parameters
}

// I3DL2 environments in preset order, after "Default".
var i3dl2Presets = [...]struct {
	name string
	p    I3DL2Parameters
}{
	{"Generic", I3DL2Parameters{100, -1000, -100, 0, 1.49, 0.83, -2602, 0.007, 200, 0.011, 100, 100, 5000}},
	{"Padded Cell", I3DL2Parameters{100, -1000, -6000, 0, 0.17, 0.10, -1204, 0.001, 207, 0.002, 100, 100, 5000}},
	{"Room", I3DL2Parameters{100, -1000, -454, 0, 0.40, 0.83, -1646, 0.002, 53, 0.003, 100, 100, 5000}},
	{"Bathroom", I3DL2Parameters{100, -1000, -1200, 0, 1.49, 0.54, -370, 0.007, 1030, 0.011, 100, 60, 5000}},
	{"Living Room", I3DL2Parameters{100, -1000, -6000, 0, 0.50, 0.10, -1376, 0.003, -1104, 0.004, 100, 100, 5000}},
	{"Stone Room", I3DL2Parameters{100, -1000, -300, 0, 2.31, 0.64, -711, 0.012, 83, 0.017, 100, 100, 5000}},
	{"Auditorium", I3DL2Parameters{100, -1000, -476, 0, 4.32, 0.59, -789, 0.020, -289, 0.030, 100, 100, 5000}},
	{"Concert Hall", I3DL2Parameters{100, -1000, -500, 0, 3.92, 0.70, -1230, 0.020, -2, 0.029, 100, 100, 5000}},
	{"Cave", I3DL2Parameters{100, -1000, 0, 0, 2.91, 1.30, -602, 0.015, -302, 0.022, 100, 100, 5000}},
	{"Arena", I3DL2Parameters{100, -1000, -698, 0, 7.24, 0.33, -1166, 0.020, 16, 0.030, 100, 100, 5000}},
	{"Hangar", I3DL2Parameters{100, -1000, -1000, 0, 10.05, 0.23, -602, 0.020, 198, 0.030, 100, 100, 5000}},
	{"Carpeted Hallway", I3DL2Parameters{100, -1000, -4000, 0, 0.30, 0.10, -1831, 0.002, -1630, 0.030, 100, 100, 5000}},
	{"Hallway", I3DL2Parameters{100, -1000, -300, 0, 1.49, 0.59, -1219, 0.007, 441, 0.011, 100, 100, 5000}},
	{"Stone Corridor", I3DL2Parameters{100, -1000, -237, 0, 2.70, 0.79, -1214, 0.013, 395, 0.020, 100, 100, 5000}},
	{"Alley", I3DL2Parameters{100, -1000, -270, 0, 1.49, 0.86, -1204, 0.007, -4, 0.011, 100, 100, 5000}},
	{"Forest", I3DL2Parameters{100, -1000, -3300, 0, 1.49, 0.54, -2560, 0.162, -613, 0.088, 79, 100, 5000}},
	{"City", I3DL2Parameters{100, -1000, -800, 0, 1.49, 0.67, -2273, 0.007, -2217, 0.011, 50, 100, 5000}},
	{"Mountains", I3DL2Parameters{100, -1000, -2500, 0, 1.49, 0.21, -2780, 0.300, -2014, 0.100, 27, 100, 5000}},
	{"Quarry", I3DL2Parameters{100, -1000, -1000, 0, 1.49, 0.83, -10000, 0.061, 500, 0.025, 100, 100, 5000}},
	{"Plain", I3DL2Parameters{100, -1000, -2000, 0, 1.49, 0.50, -2466, 0.179, -2514, 0.100, 21, 100, 5000}},
	{"Parking Lot", I3DL2Parameters{100, -1000, 0, 0, 1.65, 1.50, -1363, 0.008, -1153, 0.012, 100, 100, 5000}},
	{"Sewer Pipe", I3DL2Parameters{100, -1000, -1000, 0, 2.81, 0.14, 429, 0.014, 1023, 0.021, 80, 60, 5000}},
	{"Underwater", I3DL2Parameters{100, -1000, -4000, 0, 1.49, 0.10, -449, 0.007, 1700, 0.011, 100, 100, 5000}},
	{"Small Room", I3DL2Parameters{100, -1000, -600, 0, 1.10, 0.83, -400, 0.005, 500, 0.010, 100, 100, 5000}},
	{"Medium Room", I3DL2Parameters{100, -1000, -600, 0, 1.30, 0.83, -1000, 0.020, -200, 0.020, 100, 100, 5000}},
	{"Large Room", I3DL2Parameters{100, -1000, -600, 0, 1.50, 0.83, -1600, 0.020, -1000, 0.040, 100, 100, 5000}},
	{"Medium Hall", I3DL2Parameters{100, -1000, -600, 0, 1.80, 0.70, -1300, 0.015, -800, 0.030, 100, 100, 5000}},
	{"Large Hall", I3DL2Parameters{100, -1000, -600, 0, 1.80, 0.70, -2000, 0.030, -1400, 0.060, 100, 100, 5000}},
	{"Plate", I3DL2Parameters{100, -1000, -200, 0, 1.30, 0.90, 0, 0.002, 0, 0.010, 100, 75, 5000}},
}

// PresetCount is the number of entries in the preset list.
const PresetCount = 1 + len(i3dl2Presets)

var presets = buildPresets()

func buildPresets() [PresetCount]Preset {
	var list [PresetCount]Preset

	def := DefaultParameters()
	def.WetDryMix = DefaultPresetWetDryMix
	list[0] = Preset{Name: "Default", Parameters: def}

	for i, e := range i3dl2Presets {
		list[i+1] = Preset{Name: e.name, Parameters: e.p.Native()}
	}

	return list
}

// PresetAt returns preset i. It panics if i is outside [0, PresetCount).
func PresetAt(i int) Preset {
	if i < 0 || i >= PresetCount {
		panic(fmt.Sprintf("reverb: preset index %d out of range [0,%d)", i, PresetCount))
	}

	return presets[i]
}

// Presets returns a copy of the preset list.
func Presets() []Preset {
	out := make([]Preset, PresetCount)
	copy(out, presets[:])

	return out
}

// PresetNames returns the preset names in list order.
func PresetNames() []string {
	names := make([]string, PresetCount)
	for i := range presets {
		names[i] = presets[i].Name
	}

	return names
}

// LookupPreset finds a preset by name, ignoring case and surrounding space.
func LookupPreset(name string) (Preset, bool) {
	name = strings.TrimSpace(name)
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}

	return Preset{}, false
}
