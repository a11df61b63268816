package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mrdg/crush/audio"
	"github.com/mrdg/crush/dub"
)

type env struct {
	synth *audio.Synth
	seq   *audio.Sequencer
	out   io.Writer
}

func (e *env) eval(input string) (dub.Node, error) {
	command, err := dub.Parse(input)
	if err != nil {
		return nil, err
	}
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if cmd.arity < 0 {
			arity := -cmd.arity
			if len(command.Args) < arity {
				return nil, fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v",
					cmd.name, arity, len(command.Args))
			}
		} else if len(command.Args) != cmd.arity {
			return nil, fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(command.Args))
		}
		result, err := cmd.run(e, command.Args)
		if err != nil {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, nil
	}
	return nil, fmt.Errorf("unknown command: %s", name)
}

func repl(env *env) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "> ",
		AutoComplete: completer(),
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			return err
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if result, err := env.eval(line); err != nil {
			fmt.Println(err)
		} else if result != nil {
			fmt.Println(result)
		}
	}
}

func completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range commands {
		items = append(items, readline.PcItem(cmd.name))
	}
	return readline.NewPrefixCompleter(items...)
}

type command struct {
	name  string
	run   func(*env, []dub.Node) (dub.Node, error)
	arity int // -n means len(args) must be >= n
}

var commands = []command{
	{"set", setCommand, 2},
	{"get", getCommand, 1},
	{"params", paramsCommand, 0},
	{"note", noteCommand, -1},
	{"off", offCommand, 1},
	{"panic", panicCommand, 0},
	{"raw", rawCommand, -1},
	{"loop", loopCommand, 3},
	{"stop", stopCommand, 1},
	{"preset", presetCommand, 1},
	{"presets", presetsCommand, 0},
	{"stats", statsCommand, 0},
	{"analyze", analyzeCommand, 1},
}

func setCommand(env *env, args []dub.Node) (dub.Node, error) {
	var prop string
	if err := readArgs(args[:1], &prop); err != nil {
		return nil, err
	}
	v, err := propValue(args[1])
	if err != nil {
		return nil, err
	}
	return nil, env.synth.Set(prop, v)
}

// propValue converts a command argument to a value accepted by Props.Set.
// Besides numbers it understands on/off and waveform names.
func propValue(node dub.Node) (interface{}, error) {
	switch v := node.(type) {
	case dub.Number:
		return float64(v), nil
	case dub.Identifier:
		switch v {
		case "on", "true":
			return true, nil
		case "off", "false":
			return false, nil
		}
		for w := audio.Triangle; w <= audio.Square; w++ {
			if w.String() == string(v) {
				return int(w), nil
			}
		}
	}
	return nil, fmt.Errorf("unsupported property value: %v", node)
}

func getCommand(env *env, args []dub.Node) (dub.Node, error) {
	var prop string
	if err := readArgs(args, &prop); err != nil {
		return nil, err
	}
	v, err := env.synth.Get(prop)
	if err != nil {
		return nil, err
	}
	return dub.Number(v.(float64)), nil
}

func paramsCommand(env *env, args []dub.Node) (dub.Node, error) {
	renderParams(env.synth.Props, env.out)
	return nil, nil
}

func noteCommand(env *env, args []dub.Node) (dub.Node, error) {
	if len(args) > 2 {
		return nil, errors.New("want a pitch and an optional velocity")
	}
	pitch, velocity := 0, 100
	slots := []interface{}{&pitch, &velocity}
	if err := readArgs(args, slots[:len(args)]...); err != nil {
		return nil, err
	}
	if err := checkMIDIRange(pitch, velocity); err != nil {
		return nil, err
	}
	env.synth.NoteOn(pitch, velocity)
	return nil, nil
}

func offCommand(env *env, args []dub.Node) (dub.Node, error) {
	var pitch int
	if err := readArgs(args, &pitch); err != nil {
		return nil, err
	}
	if err := checkMIDIRange(pitch); err != nil {
		return nil, err
	}
	env.synth.NoteOff(pitch)
	return nil, nil
}

func checkMIDIRange(values ...int) error {
	for _, v := range values {
		if v < 0 || v > 127 {
			return fmt.Errorf("%d is outside the MIDI range 0-127", v)
		}
	}
	return nil
}

func panicCommand(env *env, args []dub.Node) (dub.Node, error) {
	env.synth.Panic()
	return nil, nil
}

// rawCommand decodes a MIDI message given as byte values, either numbers or
// hex strings, and sends it if it is a note message.
func rawCommand(env *env, args []dub.Node) (dub.Node, error) {
	msg := make([]byte, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case dub.Number:
			if v < 0 || v > 255 || v != dub.Number(int(v)) {
				return nil, fmt.Errorf("invalid byte: %v", v)
			}
			msg[i] = byte(v)
		case dub.String:
			b, err := strconv.ParseUint(strings.TrimPrefix(string(v), "0x"), 16, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid byte %q: %w", string(v), err)
			}
			msg[i] = byte(b)
		default:
			return nil, fmt.Errorf("invalid byte: %v", arg)
		}
	}
	ev, ok := audio.DecodeMIDI(msg, 0)
	if !ok {
		return nil, nil
	}
	env.synth.Send(ev)
	return nil, nil
}

func loopCommand(env *env, args []dub.Node) (dub.Node, error) {
	var name string
	var length float64
	var pattern []dub.Node
	if err := readArgs(args, &name, &length, &pattern); err != nil {
		return nil, err
	}
	if length <= 0 {
		return nil, fmt.Errorf("invalid loop length: %v", length)
	}
	clip := audio.NewClip(length, env.synth)
	if err := evalPattern(pattern, clip, length, new(float64)); err != nil {
		return nil, err
	}
	old := env.seq.Clips()
	// copy the map so we don't modify it in place.
	new := make(map[string]*audio.Clip, len(old)+1)
	for k, v := range old {
		new[k] = v
	}
	new[name] = clip
	env.seq.SetClips(new)
	return nil, nil
}

func stopCommand(env *env, args []dub.Node) (dub.Node, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	old := env.seq.Clips()
	if _, ok := old[name]; !ok {
		return nil, fmt.Errorf("no loop named %s", name)
	}
	new := make(map[string]*audio.Clip, len(old))
	for k, v := range old {
		if k != name {
			new[k] = v
		}
	}
	env.seq.SetClips(new)
	return nil, nil
}

func presetCommand(env *env, args []dub.Node) (dub.Node, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	return nil, audio.LoadPreset(name, env.synth)
}

func presetsCommand(env *env, args []dub.Node) (dub.Node, error) {
	var names dub.Array
	for _, name := range audio.Presets() {
		names = append(names, dub.Identifier(name))
	}
	return names, nil
}

func statsCommand(env *env, args []dub.Node) (dub.Node, error) {
	renderStats(env.synth.Stats(), env.out)
	return nil, nil
}

const analyzeSize = 8192

// analyzeCommand renders pitch offline with the current settings and prints
// the strongest frequency and the levels of the result.
func analyzeCommand(env *env, args []dub.Node) (dub.Node, error) {
	var pitch int
	if err := readArgs(args, &pitch); err != nil {
		return nil, err
	}
	if err := checkMIDIRange(pitch); err != nil {
		return nil, err
	}
	rate := float64(env.synth.Processor().SampleRate())
	samples := audio.RenderNote(env.synth.Props, rate, pitch, analyzeSize, 1)
	a, err := audio.Analyze(samples, rate)
	if err != nil {
		return nil, err
	}
	renderAnalysis(a, env.out)
	return nil, nil
}

// evalPattern adds the notes of pattern to clip, dividing divLength beats
// evenly between its items. Nested arrays subdivide their step, tuples play
// their notes together and 0 is a rest.
func evalPattern(pattern dub.Array, clip *audio.Clip, divLength float64, pos *float64) error {
	if len(pattern) == 0 {
		*pos += divLength
		return nil
	}
	noteLength := divLength / float64(len(pattern))
	for _, item := range pattern {
		switch v := item.(type) {
		case dub.Number:
			clip.AddNote(*pos, int(v), noteLength)
			*pos += noteLength
		case dub.Tuple:
			for _, item := range v {
				if i, ok := item.(dub.Number); ok {
					clip.AddNote(*pos, int(i), noteLength)
				}
			}
			*pos += noteLength
		case dub.Array:
			if err := evalPattern(v, clip, noteLength, pos); err != nil {
				return err
			}
		default:
			return fmt.Errorf("invalid %v in pattern %v", v, pattern)
		}
	}
	return nil
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			n, ok := arg.(dub.Number)
			if !ok {
				return fmt.Errorf("argument error: expected a number")
			}
			*p = float64(n)
		case *int:
			n, ok := arg.(dub.Number)
			if !ok {
				return fmt.Errorf("argument error: expected a number")
			}
			*p = int(n)
		case *[]dub.Node:
			arr, ok := arg.(dub.Array)
			if !ok {
				return fmt.Errorf("argument error: expected an array")
			}
			*p = arr
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
