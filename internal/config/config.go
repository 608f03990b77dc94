// SPDX-License-Identifier: EPL-2.0

// Package config holds the player settings read from the environment and
// the command line.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/reverb"
	"github.com/ik5/audfx/samples"
)

// Environment variables read by FromEnv.
const (
	EnvEngine     = "AUDFX_ENGINE"
	EnvLayout     = "AUDFX_LAYOUT"
	EnvSamplesDir = "AUDFX_SAMPLES_DIR"
	EnvVolume     = "AUDFX_VOLUME" // percent, 0-100
	EnvRatio      = "AUDFX_RATIO"
	EnvPreset     = "AUDFX_PRESET" // index or name
	EnvReverb     = "AUDFX_REVERB"
	EnvStereo     = "AUDFX_STEREO"
)

type Config struct {
	Engine         engine.Kind
	Layout         engine.ChannelLayout
	SamplesDir     string
	Sample         int
	Stereo         bool
	Volume         float32 // linear, 0-1
	FrequencyRatio float32
	Preset         int
	ReverbEnabled  bool
}

func Default() *Config {
	return &Config{
		Engine:         engine.KindOto,
		Layout:         engine.LayoutStereo,
		SamplesDir:     "samples",
		Sample:         samples.SnareDrum01,
		Stereo:         true,
		Volume:         1,
		FrequencyRatio: 1,
		Preset:         0,
		ReverbEnabled:  true,
	}
}

// FromEnv is Load over the process environment.
func FromEnv() *Config { return Load(os.Getenv) }

// Load starts from Default and applies every variable getenv returns. Values
// that do not parse are ignored and the default kept.
func Load(getenv func(string) string) *Config {
	cfg := Default()

	if v := getenv(EnvEngine); v != "" {
		if k, err := engine.ParseKind(v); err == nil {
			cfg.Engine = k
		}
	}

	if v := getenv(EnvLayout); v != "" {
		if l, err := engine.ParseLayout(v); err == nil {
			cfg.Layout = l
		}
	}

	if v := getenv(EnvSamplesDir); v != "" {
		cfg.SamplesDir = v
	}

	// 0-100 converted to 0.0-1.0
	if v := getenv(EnvVolume); v != "" {
		if pct, err := strconv.Atoi(v); err == nil {
			cfg.Volume = min(max(float32(pct)/100, 0), 1)
		}
	}

	if v := getenv(EnvRatio); v != "" {
		if r, err := parseRatio(v); err == nil {
			cfg.FrequencyRatio = r
		}
	}

	if v := getenv(EnvPreset); v != "" {
		if i, err := ParsePreset(v); err == nil {
			cfg.Preset = i
		}
	}

	if v := getenv(EnvReverb); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.ReverbEnabled = on
		}
	}

	if v := getenv(EnvStereo); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.Stereo = on
		}
	}

	return cfg
}

// ParsePreset resolves a preset index or a case-insensitive preset name.
func ParsePreset(s string) (int, error) {
	s = strings.TrimSpace(s)

	if i, err := strconv.Atoi(s); err == nil {
		if i < 0 || i >= reverb.PresetCount {
			return 0, fmt.Errorf("preset index %d out of range [0, %d)", i, reverb.PresetCount)
		}
		return i, nil
	}

	for i, name := range reverb.PresetNames() {
		if strings.EqualFold(name, s) {
			return i, nil
		}
	}

	return 0, fmt.Errorf("unknown preset %q", s)
}

// ParseSample resolves a sample index.
func ParseSample(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || samples.Label(id) == "" {
		return 0, fmt.Errorf("unknown sample %q, want 0-%d", s, samples.Count-1)
	}

	return id, nil
}

func parseRatio(s string) (float32, error) {
	r, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, err
	}
	if !(r > 0 && r <= engine.MaxFrequencyRatio) {
		return 0, fmt.Errorf("ratio %v not in (0, %d]", r, engine.MaxFrequencyRatio)
	}

	return float32(r), nil
}

// BindFlags registers command-line flags that override c. Call it after the
// environment has been applied so flags take precedence.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.Func("engine", fmt.Sprintf("audio engine: oto or beep (default %s)", c.Engine), func(s string) error {
		k, err := engine.ParseKind(s)
		if err == nil {
			c.Engine = k
		}
		return err
	})
	fs.Func("layout", fmt.Sprintf("speaker layout: stereo or 5.1 (default %s)", c.Layout), func(s string) error {
		l, err := engine.ParseLayout(s)
		if err == nil {
			c.Layout = l
		}
		return err
	})
	fs.StringVar(&c.SamplesDir, "samples", c.SamplesDir, "directory holding the sample files")
	fs.Func("sample", fmt.Sprintf("sample to load first, 0-%d (default %d)", samples.Count-1, c.Sample), func(s string) error {
		id, err := ParseSample(s)
		if err == nil {
			c.Sample = id
		}
		return err
	})
	fs.BoolVar(&c.Stereo, "stereo", c.Stereo, "load the stereo variant of samples")
	fs.Func("preset", fmt.Sprintf("reverb preset index or name (default %d)", c.Preset), func(s string) error {
		i, err := ParsePreset(s)
		if err == nil {
			c.Preset = i
		}
		return err
	})
	fs.BoolVar(&c.ReverbEnabled, "reverb", c.ReverbEnabled, "enable the reverb")
	fs.Func("volume", fmt.Sprintf("voice volume, 0-1 (default %g)", c.Volume), func(s string) error {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid volume %q", s)
		}
		c.Volume = float32(v)
		return nil
	})
	fs.Func("ratio", fmt.Sprintf("frequency ratio (default %g)", c.FrequencyRatio), func(s string) error {
		r, err := parseRatio(s)
		if err == nil {
			c.FrequencyRatio = r
		}
		return err
	})
}
