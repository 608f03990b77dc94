// SPDX-License-Identifier: EPL-2.0

// Command audfx plays the bundled samples through either engine with a
// switchable reverb. With -render it writes the first play to a WAV file
// instead of opening the sound card.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ik5/audfx"
	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/formats/wav"
	"github.com/ik5/audfx/internal/config"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("audfx: ")

	cfg := config.FromEnv()
	cfg.BindFlags(flag.CommandLine)
	render := flag.String("render", "", "write one play to this WAV file and exit")
	seconds := flag.Float64("seconds", 2, "length of the -render output")
	bits := flag.Int("bits", 16, "bit depth of the -render output (16, 24 or 32)")
	flag.Parse()

	if *render != "" {
		if err := renderFile(cfg, *render, *seconds, *bits); err != nil {
			log.Fatal(err)
		}
		fmt.Println("Wrote:", *render)
		return
	}

	p, err := setup(cfg, audfx.Options{})
	if err != nil {
		log.Fatal(err)
	}

	sh := &shell{player: p, out: os.Stdout, prompt: "> "}
	runErr := sh.run(os.Stdin)

	if err := errors.Join(runErr, p.Shutdown()); err != nil {
		log.Fatal(err)
	}
}

// setup builds a player from cfg. It fails only when no engine could be
// opened; a sample that cannot be loaded is logged so the shell can still
// pick another.
func setup(cfg *config.Config, opts audfx.Options) (*audfx.Player, error) {
	p := audfx.NewPlayer(audfx.NewLibrary(cfg.SamplesDir), opts)

	if err := p.SelectSample(cfg.Sample, cfg.Stereo); err != nil {
		return nil, err
	}

	if err := p.SelectEngine(cfg.Engine, cfg.Layout); err != nil {
		if p.Context() == nil {
			return nil, err
		}
		log.Print(err)
	}

	if err := p.ApplyPreset(cfg.Preset, cfg.ReverbEnabled); err != nil {
		log.Print(err)
	}

	if p.Context().Voice() == nil {
		return p, nil
	}
	if cfg.Volume != 1 {
		if err := p.SetVolume(cfg.Volume); err != nil {
			log.Print(err)
		}
	}
	if cfg.FrequencyRatio != 1 {
		if err := p.SetFrequencyRatio(cfg.FrequencyRatio); err != nil {
			log.Print(err)
		}
	}

	return p, nil
}

// renderFile writes one play of the configured sample to path. 16-bit
// output goes through the streaming writer, deeper formats through the
// go-audio encoder.
func renderFile(cfg *config.Config, path string, seconds float64, bits int) (err error) {
	if seconds <= 0 {
		return fmt.Errorf("invalid length %vs", seconds)
	}
	switch bits {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d", wav.ErrUnsupportedBitDepth, bits)
	}

	out := audfx.NewOffline()

	p, err := setup(cfg, audfx.Options{Offline: out})
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, p.Shutdown()) }()

	if err := p.Play(); err != nil {
		return err
	}

	frames := int(seconds * engine.SampleRate)
	channels := out.Channels()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if bits == 16 {
		pcm, err := audfx.RenderPCM16(out, frames, 4096)
		if err != nil {
			return err
		}
		if err := wav.WriteWAV16(f, engine.SampleRate, channels, pcm); err != nil {
			return err
		}

		return f.Close()
	}

	buf, err := out.Render(frames)
	if err != nil {
		return err
	}
	clip, err := audio.NewClip(buf, channels, engine.SampleRate)
	if err != nil {
		return err
	}
	if err := wav.Encode(f, clip, bits); err != nil {
		return err
	}

	return f.Close()
}
