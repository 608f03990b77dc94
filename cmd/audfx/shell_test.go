package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/audfx"
	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/formats/wav"
	"github.com/ik5/audfx/internal/config"
	"github.com/ik5/audfx/reverb"
	"github.com/ik5/audfx/samples"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	for _, stereo := range []bool{false, true} {
		base, _ := samples.FileBase(samples.SnareDrum01, stereo)
		channels := 1
		if stereo {
			channels = 2
		}

		f, err := os.Create(filepath.Join(dir, base+".wav"))
		if err != nil {
			t.Fatal(err)
		}
		pcm := make([]int16, 4410*channels)
		for i := range pcm {
			pcm[i] = 8192
		}
		if err := wav.WriteWAV16(f, 44100, channels, pcm); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.Default()
	cfg.SamplesDir = dir

	return cfg
}

func runShell(t *testing.T, p *audfx.Player, input string) string {
	t.Helper()

	var out bytes.Buffer
	sh := &shell{player: p, out: &out}
	if err := sh.run(strings.NewReader(input)); err != nil {
		t.Fatal(err)
	}

	return out.String()
}

func TestShell(t *testing.T) {
	t.Parallel()

	p, err := setup(testConfig(t), audfx.Options{Offline: audfx.NewOffline()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = p.Shutdown() })

	out := runShell(t, p, strings.Join([]string{
		"volume 0.5",
		"ratio 2",
		"preset concert hall",
		"reverb off",
		"play",
		"status",
		"quit",
		"status",
	}, "\n"))

	for _, want := range []string{
		"engine:  oto (stereo)",
		"sample:  0 Snare Drum (Forte), stereo, playing",
		"volume:  0.50  ratio: 2.00",
		"reverb:  off, Concert Hall",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "engine:") != 1 {
		t.Error("commands ran after quit")
	}
	if strings.Contains(out, "error:") {
		t.Errorf("unexpected error:\n%s", out)
	}
}

func TestShell_Errors(t *testing.T) {
	t.Parallel()

	p, err := setup(testConfig(t), audfx.Options{Offline: audfx.NewOffline()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = p.Shutdown() })

	tests := []struct {
		line string
		want string
	}{
		{"bogus", "unknown command"},
		{"volume", "usage"},
		{"volume -1", "volume"},
		{"ratio 0", "ratio"},
		{"reverb maybe", "want on or off"},
		{"preset 99", "out of range"},
		{"load 7", "unknown sample"},
		{"load 1", "no file for sample"},
		{"engine beep 5.1", "mastering"},
		{"engine nope", "nope"},
	}

	for _, tt := range tests {
		out := runShell(t, p, tt.line+"\n")
		if !strings.Contains(out, "error:") || !strings.Contains(out, tt.want) {
			t.Errorf("%q: output %q lacks %q", tt.line, out, tt.want)
		}
	}

	if got := p.Context().Kind(); got != engine.KindOto {
		t.Errorf("engine = %s after failed switch", got)
	}
}

func TestShell_Lists(t *testing.T) {
	t.Parallel()

	out := runShell(t, audfx.NewPlayer(nil, audfx.Options{}), "presets\nsamples\nstatus\n")

	for _, want := range []string{" 0  Default", " 9  Cave", " 2  Snare Drum (Mezzo-Forte)", "engine:  none"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}
}

func TestRenderFile(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.ReverbEnabled = false
	path := filepath.Join(t.TempDir(), "out.wav")

	if err := renderFile(cfg, path, 0.05, 16); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	// 44-byte header plus 2400 stereo frames
	if want := int64(44 + 2400*2*2); info.Size() != want {
		t.Errorf("file is %d bytes, want %d", info.Size(), want)
	}

	if err := renderFile(cfg, path, 0, 16); err == nil {
		t.Error("zero length accepted")
	}
	if err := renderFile(cfg, path, 0.05, 20); !errors.Is(err, wav.ErrUnsupportedBitDepth) {
		t.Errorf("20-bit render: %v", err)
	}
}

func TestRenderFile_BitDepth(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.ReverbEnabled = false

	for _, bits := range []int{24, 32} {
		path := filepath.Join(t.TempDir(), "out.wav")
		if err := renderFile(cfg, path, 0.05, bits); err != nil {
			t.Fatalf("%d-bit: %v", bits, err)
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		src, err := wav.Decoder{}.Decode(f)
		if err != nil {
			f.Close()
			t.Fatalf("%d-bit: %v", bits, err)
		}
		clip, err := audio.ReadClip(src)
		f.Close()
		if err != nil {
			t.Fatal(err)
		}

		if clip.Channels != 2 || clip.SampleRate != engine.SampleRate || clip.Frames() != 2400 {
			t.Errorf("%d-bit: %d ch, %d Hz, %d frames", bits, clip.Channels, clip.SampleRate, clip.Frames())
		}
	}
}

func TestShell_TunedStatus(t *testing.T) {
	t.Parallel()

	p, err := setup(testConfig(t), audfx.Options{Offline: audfx.NewOffline()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = p.Shutdown() })

	tp := reverb.Extend(reverb.PresetAt(2).Parameters)
	tp.CombGain[0] = 0.3
	if err := p.ChangeEffectTest(true, tp); err != nil {
		t.Fatal(err)
	}

	if out := runShell(t, p, "status\n"); !strings.Contains(out, "reverb:  on, custom (tuned)") {
		t.Errorf("status output:\n%s", out)
	}
}
