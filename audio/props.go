package audio

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Param is a single named knob. The value is stored as float64 bits so the
// audio thread can read it with one atomic load.
type Param struct {
	Key     string
	Unit    string
	Min     float64
	Max     float64
	Step    float64 // 0 for continuous
	Default float64
	value   atomic.Uint64
}

// Load returns the current value.
func (p *Param) Load() float64 { return math.Float64frombits(p.value.Load()) }

// Store clamps v into range, snaps it to the step size and stores it.
func (p *Param) Store(v float64) {
	if p.Step > 0 {
		v = p.Min + math.Round((v-p.Min)/p.Step)*p.Step
	}
	v = math.Max(p.Min, math.Min(p.Max, v))
	p.value.Store(math.Float64bits(v))
}

// Props stores device configuration that can be updated without locks. All
// properties have to be registered before any reads take place.
type Props struct {
	params map[string]*Param
	keys   []string
}

func NewProps() *Props {
	return &Props{params: make(map[string]*Param)}
}

// Register adds a new property initialised to its default value.
func (p *Props) Register(key, unit string, min, max, step, init float64) (*Param, error) {
	if _, ok := p.params[key]; ok {
		return nil, fmt.Errorf("property %s already registered", key)
	}
	if min > max {
		return nil, fmt.Errorf("property %s: min %v is greater than max %v", key, min, max)
	}
	prop := &Param{Key: key, Unit: unit, Min: min, Max: max, Step: step, Default: init}
	prop.Store(init)
	p.params[key] = prop
	p.keys = append(p.keys, key)
	return prop, nil
}

func (p *Props) MustRegister(key, unit string, min, max, step, init float64) *Param {
	prop, err := p.Register(key, unit, min, max, step, init)
	if err != nil {
		panic(err)
	}
	return prop
}

// Set updates the property with value. Numbers outside the valid range are
// clamped.
func (p *Props) Set(key string, value interface{}) error {
	prop, ok := p.params[key]
	if !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	f, err := toFloat(value)
	if err != nil {
		return fmt.Errorf("set property %s: %w", key, err)
	}
	prop.Store(f)
	return nil
}

func (p *Props) Get(key string) (interface{}, error) {
	prop, ok := p.params[key]
	if !ok {
		return nil, fmt.Errorf("unknown property %s", key)
	}
	return prop.Load(), nil
}

// Param returns the registered property for key, or nil.
func (p *Props) Param(key string) *Param { return p.params[key] }

// Keys returns the property names in registration order.
func (p *Props) Keys() []string {
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("value is not a number: %v", v)
	}
}
