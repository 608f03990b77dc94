// SPDX-License-Identifier: EPL-2.0

package oto

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/internal/device"
	"github.com/ik5/audfx/reverb"
)

type failingOutput struct{}

func (failingOutput) Open(device.Format) (device.Endpoint, error) { return nil, device.ErrOpen }

func openDevice(t *testing.T, layout engine.ChannelLayout) (*Device, *device.Manual) {
	t.Helper()

	out := device.NewManual()
	d, err := New(out).Open(layout)
	if err != nil {
		t.Fatalf("Open(%v) error = %v", layout, err)
	}
	t.Cleanup(func() { _ = d.Close() })

	return d.(*Device), out
}

func chain(enabled bool, p reverb.Parameters) engine.EffectChain {
	block, _ := p.MarshalBinary()
	return engine.EffectChain{{Enabled: enabled, Parameters: block}}
}

func dry() engine.EffectChain { return chain(false, reverb.DefaultParameters()) }

func constClip(t *testing.T, channels, frames int, values ...float32) *audio.Clip {
	t.Helper()

	s := make([]float32, channels*frames)
	for i := range s {
		s[i] = values[i%len(values)]
	}
	c, err := audio.NewClip(s, channels, engine.SampleRate)
	if err != nil {
		t.Fatal(err)
	}

	return c
}

func pull(t *testing.T, out *device.Manual, frames int) []float32 {
	t.Helper()

	s, err := out.PullFrames(frames)
	if err != nil {
		t.Fatalf("PullFrames(%d) error = %v", frames, err)
	}

	return s
}

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-4 }

func TestBackend_Open(t *testing.T) {
	t.Parallel()

	for _, layout := range []engine.ChannelLayout{engine.LayoutStereo, engine.Layout51} {
		t.Run(layout.String(), func(t *testing.T) {
			t.Parallel()

			d, out := openDevice(t, layout)
			if d.Layout() != layout {
				t.Errorf("Layout() = %v", d.Layout())
			}
			want := device.Format{SampleRate: engine.SampleRate, Channels: layout.Channels()}
			if out.Format() != want || out.Streams() != 1 {
				t.Errorf("output %v with %d streams, want %v with 1", out.Format(), out.Streams(), want)
			}

			// idle mastering voice renders silence
			for i, s := range pull(t, out, 64) {
				if s != 0 {
					t.Fatalf("sample %d = %v, want 0", i, s)
				}
			}

			if err := d.Close(); err != nil {
				t.Fatal(err)
			}
			if out.Streams() != 0 {
				t.Errorf("%d streams after Close", out.Streams())
			}
		})
	}
}

func TestBackend_OpenFailure(t *testing.T) {
	t.Parallel()

	b := New(failingOutput{})
	if b.Kind() != engine.KindOto {
		t.Errorf("Kind() = %v", b.Kind())
	}
	if _, err := b.Open(engine.LayoutStereo); !errors.Is(err, engine.ErrEngineInit) || !errors.Is(err, device.ErrOpen) {
		t.Errorf("Open() error = %v, want ErrEngineInit wrapping ErrOpen", err)
	}
}

func TestDevice_NewVoiceErrors(t *testing.T) {
	t.Parallel()

	d, _ := openDevice(t, engine.LayoutStereo)

	tests := []struct {
		name  string
		clip  *audio.Clip
		chain engine.EffectChain
		want  error
	}{
		{"no chain", constClip(t, 2, 4, 0), nil, engine.ErrEffectAttach},
		{"two effects", constClip(t, 2, 4, 0), append(dry(), dry()...), engine.ErrEffectAttach},
		{"bad block", constClip(t, 2, 4, 0), engine.EffectChain{{Parameters: make([]byte, 7)}}, engine.ErrEffectAttach},
		{"too many channels", constClip(t, 8, 4, 0), dry(), engine.ErrVoiceCreation},
		{"invalid clip", &audio.Clip{Channels: 2}, dry(), engine.ErrVoiceCreation},
	}

	for _, tt := range tests {
		if _, err := d.NewVoice(tt.clip, tt.chain); !errors.Is(err, tt.want) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestVoice_PlayMonoOnStereo(t *testing.T) {
	t.Parallel()

	d, out := openDevice(t, engine.LayoutStereo)
	v, err := d.NewVoice(constClip(t, 1, 100, 0.5), dry())
	if err != nil {
		t.Fatal(err)
	}

	// created voices are silent until Play
	if s := pull(t, out, 1); s[0] != 0 {
		t.Fatalf("unstarted voice produced %v", s[0])
	}

	if err := v.Play(); err != nil {
		t.Fatal(err)
	}

	s := pull(t, out, 150)
	for f := range 100 {
		if s[2*f] != 0.5 || s[2*f+1] != 0.5 {
			t.Fatalf("frame %d = [%v %v], want [0.5 0.5]", f, s[2*f], s[2*f+1])
		}
	}
	for f := 101; f < 150; f++ {
		if s[2*f] != 0 {
			t.Fatalf("silence tail frame %d = %v", f, s[2*f])
		}
	}
}

func TestVoice_PlayRestarts(t *testing.T) {
	t.Parallel()

	d, out := openDevice(t, engine.LayoutStereo)

	ramp := make([]float32, 2*200)
	for i := range ramp {
		ramp[i] = float32(i/2) / 200
	}
	clip, _ := audio.NewClip(ramp, 2, engine.SampleRate)

	v, err := d.NewVoice(clip, dry())
	if err != nil {
		t.Fatal(err)
	}

	for round := range 3 {
		if err := v.Play(); err != nil {
			t.Fatal(err)
		}
		s := pull(t, out, 50)
		for f := range 50 {
			if want := float32(f) / 200; s[2*f] != want {
				t.Fatalf("round %d frame %d = %v, want %v", round, f, s[2*f], want)
			}
		}
	}

	vv := v.(*voice)
	d.mtx.Lock()
	queued := queuedSamples(vv.queue)
	d.mtx.Unlock()

	// one clip plus one tail, minus what the resampler has buffered
	if limit := len(ramp) + len(vv.silence); queued > limit {
		t.Errorf("%d samples queued after three plays, want at most %d", queued, limit)
	}
}

func TestVoice_Volume(t *testing.T) {
	t.Parallel()

	d, out := openDevice(t, engine.LayoutStereo)
	v, _ := d.NewVoice(constClip(t, 2, 100, 0.5, -0.5), dry())

	if err := v.SetVolume(0.5); err != nil {
		t.Fatal(err)
	}
	if err := v.Play(); err != nil {
		t.Fatal(err)
	}

	s := pull(t, out, 10)
	if s[0] != 0.25 || s[1] != -0.25 {
		t.Errorf("frame 0 = [%v %v], want [0.25 -0.25]", s[0], s[1])
	}
}

func TestVoice_StereoOnSurround(t *testing.T) {
	t.Parallel()

	d, out := openDevice(t, engine.Layout51)
	v, _ := d.NewVoice(constClip(t, 2, 10, 0.25, 0.75), dry())
	if err := v.Play(); err != nil {
		t.Fatal(err)
	}

	s := pull(t, out, 1)
	want := []float32{0.25, 0.75, 0, 0, 0, 0}
	for c := range want {
		if s[c] != want[c] {
			t.Errorf("channel %d = %v, want %v", c, s[c], want[c])
		}
	}
}

func TestVoice_FrequencyRatio(t *testing.T) {
	t.Parallel()

	d, out := openDevice(t, engine.LayoutStereo)
	v, _ := d.NewVoice(constClip(t, 1, 100, 0.5), dry())

	if err := v.SetFrequencyRatio(2); err != nil {
		t.Fatal(err)
	}
	if err := v.SetFrequencyRatio(0); !errors.Is(err, engine.ErrInvalidFrequencyRatio) {
		t.Errorf("SetFrequencyRatio(0) error = %v", err)
	}
	if err := v.Play(); err != nil {
		t.Fatal(err)
	}

	s := pull(t, out, 80)
	if !near(s[2*40], 0.5) {
		t.Errorf("frame 40 = %v, want 0.5 while the clip plays", s[2*40])
	}
	// the 100-frame clip is used up by output frame 50
	if !near(s[2*70], 0) {
		t.Errorf("frame 70 = %v, want silence at double speed", s[2*70])
	}
}

func TestVoice_Reverb(t *testing.T) {
	t.Parallel()

	d, out := openDevice(t, engine.LayoutStereo)

	impulse := constClip(t, 1, 4800, 0)
	impulse.Samples[0] = 1

	v, err := d.NewVoice(impulse, chain(true, reverb.DefaultParameters()))
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Play(); err != nil {
		t.Fatal(err)
	}

	s := pull(t, out, 4800)
	if !near(s[0], 0) {
		t.Errorf("frame 0 = %v, want 0 with a fully wet mix", s[0])
	}
	var energy float64
	for _, x := range s {
		energy += float64(x * x)
	}
	if energy == 0 {
		t.Error("reverb tail is silent")
	}

	// disabled: the impulse passes dry
	if err := v.DisableEffect(engine.ReverbIndex); err != nil {
		t.Fatal(err)
	}
	if err := v.Play(); err != nil {
		t.Fatal(err)
	}
	if s := pull(t, out, 1); s[0] != 1 {
		t.Errorf("dry frame 0 = %v, want 1", s[0])
	}

	if err := v.EnableEffect(3); err == nil {
		t.Error("EnableEffect(3) succeeded")
	}
	if err := v.SetEffectParameters(engine.ReverbIndex, make([]byte, 10)); err == nil {
		t.Error("SetEffectParameters accepted a 10-byte block")
	}
}

func TestVoice_Destroy(t *testing.T) {
	t.Parallel()

	d, out := openDevice(t, engine.LayoutStereo)
	v, _ := d.NewVoice(constClip(t, 1, 1000, 0.5), dry())
	if err := v.Play(); err != nil {
		t.Fatal(err)
	}
	_ = pull(t, out, 10)

	if err := v.Destroy(); err != nil {
		t.Fatal(err)
	}
	if err := v.Destroy(); err != nil {
		t.Errorf("second Destroy() error = %v", err)
	}

	if s := pull(t, out, 10); s[0] != 0 {
		t.Errorf("destroyed voice still audible: %v", s[0])
	}
	if err := v.Play(); !errors.Is(err, engine.ErrBufferSubmit) {
		t.Errorf("Play() after Destroy error = %v, want ErrBufferSubmit", err)
	}

	d.mtx.Lock()
	n := len(d.voices)
	d.mtx.Unlock()
	if n != 0 {
		t.Errorf("%d voices still mixed", n)
	}
}

func TestVoice_Stop(t *testing.T) {
	t.Parallel()

	d, out := openDevice(t, engine.LayoutStereo)
	v, _ := d.NewVoice(constClip(t, 1, 1000, 0.5), dry())
	_ = v.Play()
	_ = pull(t, out, 5)

	if err := v.Stop(); err != nil {
		t.Fatal(err)
	}
	if s := pull(t, out, 5); s[0] != 0 {
		t.Errorf("stopped voice produced %v", s[0])
	}
}

func BenchmarkDevice_Render(b *testing.B) {
	out := device.NewManual()
	dev, err := New(out).Open(engine.LayoutStereo)
	if err != nil {
		b.Fatal(err)
	}
	defer dev.Close()

	clip, _ := audio.NewClip(make([]float32, 2*engine.SampleRate), 2, 44100)
	block, _ := reverb.DefaultParameters().MarshalBinary()
	v, _ := dev.NewVoice(clip, engine.EffectChain{{Enabled: true, Parameters: block}})
	_ = v.Play()

	buf := make([]byte, 512*2*device.BytesPerSample)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := out.Pull(buf); err != nil {
			b.Fatal(err)
		}
	}
}
