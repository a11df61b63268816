package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

type Source interface {
	Process([][]float32)
}

type Ticker interface {
	Tick(numSamples int)
}

// Stream is an open audio output pulling blocks from a Sink.
type Stream interface {
	Start() error
	Close() error
}

// Sink mixes its sources into the planar stereo buffers handed to it by an
// output stream. Sources and tickers have to be added before the stream
// starts.
type Sink struct {
	sources []Source
	tickers []Ticker
}

func (s *Sink) AddSources(sources ...Source) {
	s.sources = append(s.sources, sources...)
}

func (s *Sink) AddTicker(ticker Ticker) {
	s.tickers = append(s.tickers, ticker)
}

func (s *Sink) Process(samples [][]float32) {
	for i := range samples {
		clear(samples[i])
	}
	if len(samples) == 0 {
		return
	}
	for _, ticker := range s.tickers {
		ticker.Tick(len(samples[0]))
	}
	for _, source := range s.sources {
		source.Process(samples)
	}
}

type portAudioStream struct {
	stream *portaudio.Stream
}

// OpenPortAudio opens the default output device with a stereo stream calling
// s.Process from the portaudio callback.
func OpenPortAudio(s *Sink, sampleRate float64, framesPerBuffer int) (Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("sink: initialize portaudio: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, numChannels, sampleRate, framesPerBuffer, s.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("sink: open stream: %w", err)
	}
	return &portAudioStream{stream: stream}, nil
}

func (p *portAudioStream) Start() error {
	return p.stream.Start()
}

func (p *portAudioStream) Close() error {
	err := p.stream.Close()
	portaudio.Terminate()
	return err
}
