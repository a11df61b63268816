package audio

import (
	"fmt"
	"sort"
)

type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

type preset map[string]interface{}

var presets = map[string]preset{
	"init": preset{
		PropDetune:    2.,
		PropNoise:     2.,
		PropRate:      0.,
		PropBits:      24.,
		PropDetuneOn:  0.1,
		PropDetuneMix: 0.7,
		PropLFOSpeed:  10.,
		PropWave:      int(Triangle),
		PropDelayMix:  0.,
	},
	"clean": preset{
		PropNoise:    0.,
		PropRate:     0.,
		PropBits:     32.,
		PropDetuneOn: false,
		PropDelayMix: 0.,
	},
	"lofi-pad": preset{
		PropDetuneOn:      true,
		PropDetune:        6.,
		PropDetuneMix:     0.5,
		PropLFOSpeed:      3.,
		PropBits:          8.,
		PropRate:          4.,
		PropNoise:         40.,
		PropDelayTime:     380.,
		PropDelayFeedback: 0.45,
		PropDelayMix:      0.3,
	},
	"crushed": preset{
		PropBits:  3.,
		PropRate:  12.,
		PropNoise: 70.,
	},
	"wobble": preset{
		PropWave:       int(Square),
		PropPulseWidth: 0.3,
		PropDetuneOn:   true,
		PropDetune:     20.,
		PropDetuneMix:  0.5,
		PropLFOSpeed:   200.,
	},
}

func LoadPreset(name string, d Device) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	for k, v := range p {
		if err := d.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Presets lists the preset names in alphabetical order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
