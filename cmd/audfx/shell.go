// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ik5/audfx"
	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/internal/config"
	"github.com/ik5/audfx/reverb"
	"github.com/ik5/audfx/samples"
)

const help = `commands:
  engine <oto|beep> [stereo|5.1]  switch engine
  load <id> [mono|stereo]         load a sample
  play                            play the loaded sample
  volume <v>                      set the voice volume
  ratio <r>                       set the frequency ratio
  reverb <on|off>                 toggle the reverb
  preset <index|name>             apply a reverb preset
  presets                         list reverb presets
  samples                         list samples
  status                          show the player state
  quit                            exit`

var errUsage = errors.New("usage")

// shell reads one command per line and applies it to player. Command
// errors are printed and do not end the session.
type shell struct {
	player *audfx.Player
	out    io.Writer
	prompt string
}

func (s *shell) run(r io.Reader) error {
	sc := bufio.NewScanner(r)

	for {
		fmt.Fprint(s.out, s.prompt)
		if !sc.Scan() {
			return sc.Err()
		}

		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		quit, err := s.exec(fields[0], fields[1:])
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
		if quit {
			return nil
		}
	}
}

func (s *shell) exec(cmd string, args []string) (bool, error) {
	p := s.player

	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		return true, nil

	case "help", "?":
		fmt.Fprintln(s.out, help)

	case "engine":
		if len(args) < 1 || len(args) > 2 {
			return false, fmt.Errorf("%w: engine <oto|beep> [stereo|5.1]", errUsage)
		}
		kind, err := engine.ParseKind(args[0])
		if err != nil {
			return false, err
		}
		layout := engine.LayoutStereo
		if len(args) == 2 {
			if layout, err = engine.ParseLayout(args[1]); err != nil {
				return false, err
			}
		}
		return false, p.SelectEngine(kind, layout)

	case "load":
		if len(args) < 1 || len(args) > 2 {
			return false, fmt.Errorf("%w: load <id> [mono|stereo]", errUsage)
		}
		id, err := config.ParseSample(args[0])
		if err != nil {
			return false, err
		}
		stereo := p.Status().Stereo
		if len(args) == 2 {
			switch strings.ToLower(args[1]) {
			case "mono":
				stereo = false
			case "stereo":
				stereo = true
			default:
				return false, fmt.Errorf("%w: load <id> [mono|stereo]", errUsage)
			}
		}
		return false, p.LoadSample(id, stereo)

	case "play", "p":
		return false, p.Play()

	case "volume":
		v, err := oneFloat(args, "volume <v>")
		if err != nil {
			return false, err
		}
		return false, p.SetVolume(v)

	case "ratio":
		r, err := oneFloat(args, "ratio <r>")
		if err != nil {
			return false, err
		}
		return false, p.SetFrequencyRatio(r)

	case "reverb":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: reverb <on|off>", errUsage)
		}
		on, err := parseSwitch(args[0])
		if err != nil {
			return false, err
		}
		return false, p.SetReverbEnabled(on)

	case "preset":
		if len(args) == 0 {
			return false, fmt.Errorf("%w: preset <index|name>", errUsage)
		}
		i, err := config.ParsePreset(strings.Join(args, " "))
		if err != nil {
			return false, err
		}
		return false, p.ApplyPreset(i, p.Status().ReverbEnabled)

	case "presets":
		for i, name := range reverb.PresetNames() {
			fmt.Fprintf(s.out, "%2d  %s\n", i, name)
		}

	case "samples":
		for i, label := range samples.Labels() {
			fmt.Fprintf(s.out, "%2d  %s\n", i, label)
		}

	case "status":
		s.status()

	default:
		return false, fmt.Errorf("unknown command %q, try help", cmd)
	}

	return false, nil
}

func (s *shell) status() {
	st := s.player.Status()

	if st.Active {
		fmt.Fprintf(s.out, "engine:  %s (%s)\n", st.Engine, st.Layout)
	} else {
		fmt.Fprintln(s.out, "engine:  none")
	}

	variant := "mono"
	if st.Stereo {
		variant = "stereo"
	}
	state := "not loaded"
	switch {
	case st.Playing:
		state = "playing"
	case st.Loaded:
		state = "loaded"
	}
	fmt.Fprintf(s.out, "sample:  %d %s, %s, %s\n", st.Sample, samples.Label(st.Sample), variant, state)
	fmt.Fprintf(s.out, "volume:  %.2f  ratio: %.2f\n", st.Volume, st.Ratio)

	preset := "custom"
	switch {
	case st.Preset != audfx.CustomPreset:
		preset = reverb.PresetAt(st.Preset).Name
	case st.Tuned:
		preset = "custom (tuned)"
	}
	reverbState := "off"
	if st.ReverbEnabled {
		reverbState = "on"
	}
	fmt.Fprintf(s.out, "reverb:  %s, %s\n", reverbState, preset)
}

func oneFloat(args []string, usage string) (float32, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}

	v, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", args[0])
	}

	return float32(v), nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	}

	return false, fmt.Errorf("want on or off, got %q", s)
}
