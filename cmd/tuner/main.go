// Command tuner detects the fundamental frequency of a monophonic
// instrument, from a WAV file or live microphone input.
//
// Usage:
//
//	tuner [flags] -in recording.wav
//	tuner [flags] -live
//
// Examples:
//
//	tuner -in guitar.wav -mode guitar
//	tuner -in voice.wav -min 80 -max 1200
//	tuner -live -mode piano -frame 8192
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/gordonklaus/portaudio"
	"github.com/unixpickle/wav"

	"github.com/cwbudde/algo-tuner/dsp/note"
	"github.com/cwbudde/algo-tuner/dsp/tuner"
)

func main() {
	in := flag.String("in", "", "WAV file to analyze")
	live := flag.Bool("live", false, "analyze the default microphone until interrupted")
	mode := flag.String("mode", "chromatic", "instrument profile: chromatic, guitar, piano")
	frame := flag.Int("frame", 4096, "analysis frame length in samples")
	step := flag.Int("step", 2048, "hop between frames in samples (file mode)")
	minFreq := flag.Float64("min", tuner.DefaultMinFreq, "lowest detectable frequency in Hz")
	maxFreq := flag.Float64("max", tuner.DefaultMaxFreq, "highest detectable frequency in Hz")
	threshold := flag.Float64("threshold", 0, "noise gate threshold override in (0, 1); 0 keeps the profile default")
	rate := flag.Float64("rate", 44100, "capture sample rate in Hz (live mode)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tuner [flags] -in file.wav | -live\n\n")
		fmt.Fprintf(os.Stderr, "Detects the fundamental frequency of a monophonic instrument.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tuner -in guitar.wav -mode guitar\n")
		fmt.Fprintf(os.Stderr, "  tuner -live -mode piano\n")
	}
	flag.Parse()

	m, err := parseMode(*mode)
	if err != nil {
		fatal(err)
	}

	if *frame < 64 || *step <= 0 || *step > *frame {
		fatal(fmt.Errorf("invalid framing: frame %d, step %d", *frame, *step))
	}

	opts := []tuner.Option{
		tuner.WithMode(m),
		tuner.WithFrequencyRange(*minFreq, *maxFreq),
	}
	if *threshold != 0 {
		opts = append(opts, tuner.WithNoiseThreshold(*threshold))
	}
	e := tuner.New(opts...)

	switch {
	case *in != "":
		err = analyzeFile(e, *in, *frame, *step)
	case *live:
		err = analyzeLive(e, *frame, *rate)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func parseMode(name string) (tuner.Mode, error) {
	switch name {
	case "chromatic":
		return tuner.Chromatic, nil
	case "guitar":
		return tuner.Guitar, nil
	case "piano":
		return tuner.Piano, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want chromatic, guitar or piano)", name)
	}
}

// analyzeFile runs the engine over overlapping frames of a WAV file and
// prints one line per frame.
func analyzeFile(e *tuner.Engine, path string, frame, step int) error {
	s, err := wav.ReadSoundFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	rate := float64(s.SampleRate())
	mono := downmix(s.Samples(), s.Channels())
	buf := make([]float64, frame)

	for offset := 0; offset+frame <= len(mono); offset += step {
		copy(buf, mono[offset:offset+frame])
		report(e, float64(offset)/rate, e.EstimatePitchWithConfidence(buf, rate))
	}

	return nil
}

// downmix averages interleaved channels into a single mono signal.
func downmix(samples []wav.Sample, channels int) []float64 {
	if channels < 1 {
		channels = 1
	}

	mono := make([]float64, len(samples)/channels)
	for i := range mono {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(samples[i*channels+c])
		}
		mono[i] = sum / float64(channels)
	}

	return mono
}

// analyzeLive captures mono frames from the default input device until
// the process is interrupted.
func analyzeLive(e *tuner.Engine, frame int, rate float64) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	defer portaudio.Terminate()

	capture := make([]float32, frame)
	stream, err := portaudio.OpenDefaultStream(1, 0, rate, len(capture), capture)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start input stream: %w", err)
	}
	defer stream.Stop()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	buf := make([]float64, frame)
	elapsed := 0.0

	for {
		select {
		case <-interrupt:
			return nil
		default:
		}

		if err := stream.Read(); err != nil {
			return fmt.Errorf("read input stream: %w", err)
		}

		for i, v := range capture {
			buf[i] = float64(v)
		}

		report(e, elapsed, e.EstimatePitchWithConfidence(buf, rate))
		elapsed += float64(frame) / rate
	}
}

// report prints one line per analyzed frame.
func report(e *tuner.Engine, seconds float64, res tuner.Estimate) {
	if !res.Voiced {
		state := "silence"
		if res.GateOpen {
			state = "no pitch"
		}
		fmt.Printf("%8.3fs  %s\n", seconds, state)
		return
	}

	n, err := note.Nearest(res.Pitch)
	if err != nil {
		fmt.Printf("%8.3fs  %8.2f Hz  (conf %.2f)\n", seconds, res.Pitch, res.Confidence)
		return
	}

	fmt.Printf("%8.3fs  %8.2f Hz  %-4s %+6.1f cents  (conf %.2f)\n",
		seconds, res.Pitch, fmt.Sprintf("%s%d", n.Name, n.Octave), n.Cents, res.Confidence)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "tuner:", err)
	os.Exit(1)
}
