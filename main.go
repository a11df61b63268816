package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mrdg/crush/audio"
)

func main() {
	var (
		sampleRate = flag.Float64("samplerate", 44100, "output sample rate")
		bufferSize = flag.Int("buffer", 256, "frames per audio callback")
		voices     = flag.Int("voices", 20, "number of synth voices")
		backend    = flag.String("backend", "portaudio", "audio output: portaudio or oto")
		preset     = flag.String("preset", "", "preset to load at startup")
		run        = flag.String("run", "", "file with commands to run at startup")
		midiFile   = flag.String("render", "", "render a standard MIDI file to WAV and exit")
		out        = flag.String("out", "out.wav", "WAV file written by -render")
		tail       = flag.Float64("tail", 1, "seconds rendered after the last MIDI event")
	)
	flag.Parse()

	synth := audio.NewSynth(audio.Config{
		SampleRate: *sampleRate,
		BufferSize: *bufferSize,
		Voices:     *voices,
		Seed:       uint64(time.Now().UnixNano()),
	})
	if *preset != "" {
		if err := audio.LoadPreset(*preset, synth); err != nil {
			log.Fatal(err)
		}
	}

	if *midiFile != "" {
		tailDuration := time.Duration(*tail * float64(time.Second))
		if err := renderFile(synth, *midiFile, *out, *bufferSize, tailDuration); err != nil {
			log.Fatal(err)
		}
		return
	}

	commands, err := readScript(*run)
	if err != nil {
		log.Fatal(err)
	}

	seq := audio.NewSequencer(synth.Props, *sampleRate)
	sink := &audio.Sink{}
	sink.AddTicker(seq)
	sink.AddSources(synth)

	stream, err := openStream(*backend, sink, *sampleRate, *bufferSize)
	if err != nil {
		log.Fatal(err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		log.Fatal(err)
	}

	env := &env{synth: synth, seq: seq, out: os.Stdout}
	for _, line := range commands {
		if _, err := env.eval(line); err != nil {
			log.Fatal(err)
		}
	}

	if err := repl(env); err != nil && err != io.EOF {
		fmt.Println(err)
		os.Exit(1)
	}
}

func openStream(backend string, sink *audio.Sink, sampleRate float64, bufferSize int) (audio.Stream, error) {
	switch backend {
	case "portaudio":
		return audio.OpenPortAudio(sink, sampleRate, bufferSize)
	case "oto":
		return audio.OpenOto(sink, sampleRate, bufferSize)
	default:
		return nil, fmt.Errorf("unknown backend: %s", backend)
	}
}

// readScript returns the non-empty lines of the command file at path.
func readScript(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var commands []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" && !strings.HasPrefix(line, "#") {
			commands = append(commands, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return commands, nil
}

func renderFile(synth *audio.Synth, midiFile, out string, bufferSize int, tail time.Duration) error {
	proc := synth.Processor()
	events, err := audio.LoadSMF(midiFile, float64(proc.SampleRate()))
	if err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	frames, err := audio.RenderWAV(f, proc, events, bufferSize, tail)
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("render: close %s: %w", out, err)
	}
	log.Printf("render: wrote %d frames from %d events to %s", frames, len(events), out)
	return nil
}
