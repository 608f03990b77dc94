package audfx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/internal/enginetest"
	"github.com/ik5/audfx/reverb"
	"github.com/ik5/audfx/samples"
)

var errMissing = errors.New("missing")

type clipSource map[int]*audio.Clip

func (c clipSource) Load(id int, stereo bool) (*audio.Clip, error) {
	clip, ok := c[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", errMissing, id)
	}

	return clip, nil
}

func testClip(t *testing.T) *audio.Clip {
	t.Helper()

	clip, err := audio.NewClip(make([]float32, 4410), 1, 44100)
	if err != nil {
		t.Fatal(err)
	}

	return clip
}

// fakePlayer returns a player whose backends are fakes, one per kind.
func fakePlayer(t *testing.T, src engine.SampleSource) (*Player, map[engine.Kind]*enginetest.Backend) {
	t.Helper()

	fakes := map[engine.Kind]*enginetest.Backend{}
	for _, k := range engine.Kinds() {
		fakes[k] = enginetest.NewBackend(k)
	}

	p := NewPlayer(src, Options{})
	p.newBackend = func(k engine.Kind, _ Options) (engine.Backend, error) {
		b, ok := fakes[k]
		if !ok {
			return nil, engine.ErrUnknownKind
		}
		return b, nil
	}

	return p, fakes
}

func liveVoice(t *testing.T, b *enginetest.Backend) *enginetest.Voice {
	t.Helper()

	d := b.LastDevice()
	if d == nil {
		t.Fatal("no device opened")
	}
	voices := d.Voices()
	if len(voices) == 0 {
		t.Fatal("no voice created")
	}

	v := voices[len(voices)-1]
	if v.Destroyed {
		t.Fatal("last voice destroyed")
	}

	return v
}

func TestPlayer_NoContext(t *testing.T) {
	t.Parallel()

	p, _ := fakePlayer(t, nil)

	checks := map[string]error{
		"LoadSample":        p.LoadSample(samples.SnareDrum01, false),
		"Play":              p.Play(),
		"SetVolume":         p.SetVolume(1),
		"SetFrequencyRatio": p.SetFrequencyRatio(1),
		"ChangeEffect":      p.ChangeEffect(true, reverb.DefaultParameters()),
		"ChangeEffectTest":  p.ChangeEffectTest(true, reverb.Extend(reverb.DefaultParameters())),
		"ApplyPreset":       p.ApplyPreset(1, true),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrNoContext) {
			t.Errorf("%s: err = %v, want ErrNoContext", name, err)
		}
	}

	if err := p.Shutdown(); err != nil {
		t.Errorf("Shutdown = %v", err)
	}
	if s := p.Status(); s.Active || s.Loaded {
		t.Errorf("status = %+v", s)
	}
}

func TestPlayer_SelectEngineLoadsSample(t *testing.T) {
	t.Parallel()

	clip := testClip(t)
	p, fakes := fakePlayer(t, clipSource{samples.SnareDrum01: clip})

	if err := p.SelectEngine(engine.KindOto, engine.LayoutStereo); err != nil {
		t.Fatal(err)
	}

	v := liveVoice(t, fakes[engine.KindOto])
	if v.Clip != clip {
		t.Error("voice does not play the selected sample")
	}
	if v.Enabled {
		t.Error("reverb enabled on a fresh player")
	}
	if p.Context().State() != engine.StateLoaded {
		t.Errorf("state = %v", p.Context().State())
	}
}

func TestPlayer_SwitchCarriesSettings(t *testing.T) {
	t.Parallel()

	p, fakes := fakePlayer(t, clipSource{samples.SnareDrum01: testClip(t)})

	if err := p.SelectEngine(engine.KindOto, engine.LayoutStereo); err != nil {
		t.Fatal(err)
	}
	if err := p.SetVolume(0.5); err != nil {
		t.Fatal(err)
	}
	if err := p.SetFrequencyRatio(2); err != nil {
		t.Fatal(err)
	}
	if err := p.ApplyPreset(8, true); err != nil {
		t.Fatal(err)
	}

	old := p.Context()
	if err := p.SelectEngine(engine.KindBeep, engine.LayoutStereo); err != nil {
		t.Fatal(err)
	}
	if old.State() != engine.StateDestroyed {
		t.Errorf("old context state = %v", old.State())
	}
	if !fakes[engine.KindOto].LastDevice().Closed() {
		t.Error("old device left open")
	}

	v := liveVoice(t, fakes[engine.KindBeep])
	if v.Volume != 0.5 || v.Ratio != 2 || !v.Enabled {
		t.Errorf("voice volume %v ratio %v enabled %v", v.Volume, v.Ratio, v.Enabled)
	}

	var got reverb.Parameters
	if err := got.UnmarshalBinary(v.LastBlock()); err != nil {
		t.Fatal(err)
	}
	if want := reverb.PresetAt(8).Parameters; got != want {
		t.Errorf("block = %+v, want %+v", got, want)
	}

	s := p.Status()
	if s.Engine != engine.KindBeep || s.Preset != 8 || !s.ReverbEnabled {
		t.Errorf("status = %+v", s)
	}
}

func TestPlayer_SwitchCarriesTestParameters(t *testing.T) {
	t.Parallel()

	p, fakes := fakePlayer(t, clipSource{samples.SnareDrum01: testClip(t)})

	if err := p.SelectEngine(engine.KindOto, engine.LayoutStereo); err != nil {
		t.Fatal(err)
	}

	tp := reverb.Extend(reverb.PresetAt(3).Parameters)
	tp.CombGain[0] = 0.3
	if err := p.ChangeEffectTest(true, tp); err != nil {
		t.Fatal(err)
	}

	if err := p.SelectEngine(engine.KindBeep, engine.LayoutStereo); err != nil {
		t.Fatal(err)
	}

	block := liveVoice(t, fakes[engine.KindBeep]).LastBlock()
	if len(block) != reverb.TestSize {
		t.Fatalf("block is %d bytes, want %d", len(block), reverb.TestSize)
	}
	if st := p.Status(); st.Preset != CustomPreset || !st.Tuned {
		t.Errorf("preset = %d, tuned = %v", st.Preset, st.Tuned)
	}

	if err := p.ApplyPreset(3, true); err != nil {
		t.Fatal(err)
	}
	if p.Status().Tuned {
		t.Error("a preset still reports tuning overrides")
	}
}

func TestPlayer_FailedSwitchKeepsContext(t *testing.T) {
	t.Parallel()

	p, fakes := fakePlayer(t, clipSource{samples.SnareDrum01: testClip(t)})

	if err := p.SelectEngine(engine.KindOto, engine.LayoutStereo); err != nil {
		t.Fatal(err)
	}
	old := p.Context()

	fakes[engine.KindBeep].FailMastering = true
	err := p.SelectEngine(engine.KindBeep, engine.LayoutStereo)
	if !errors.Is(err, engine.ErrMasteringVoice) {
		t.Fatalf("err = %v, want ErrMasteringVoice", err)
	}

	if p.Context() != old || old.State() != engine.StateLoaded {
		t.Error("failed switch replaced the context")
	}
	if err := p.Play(); err != nil {
		t.Errorf("Play after failed switch = %v", err)
	}

	if err := p.SelectEngine(engine.Kind(99), engine.LayoutStereo); !errors.Is(err, engine.ErrUnknownKind) {
		t.Errorf("unknown kind err = %v", err)
	}
}

func TestPlayer_LoadSample(t *testing.T) {
	t.Parallel()

	first, second := testClip(t), testClip(t)
	p, fakes := fakePlayer(t, clipSource{
		samples.SnareDrum01: first,
		samples.SnareDrum02: second,
	})

	if err := p.SelectEngine(engine.KindOto, engine.LayoutStereo); err != nil {
		t.Fatal(err)
	}
	if err := p.SetVolume(0.25); err != nil {
		t.Fatal(err)
	}

	if err := p.LoadSample(samples.SnareDrum02, false); err != nil {
		t.Fatal(err)
	}
	v := liveVoice(t, fakes[engine.KindOto])
	if v.Clip != second || v.Volume != 0.25 {
		t.Errorf("voice clip ok %v volume %v", v.Clip == second, v.Volume)
	}

	err := p.LoadSample(samples.SnareDrum03, true)
	if !errors.Is(err, errMissing) {
		t.Fatalf("err = %v, want errMissing", err)
	}
	s := p.Status()
	if s.Sample != samples.SnareDrum02 || s.Stereo || !s.Loaded {
		t.Errorf("status after failed load = %+v", s)
	}
}

func TestPlayer_ApplyPreset(t *testing.T) {
	t.Parallel()

	p, _ := fakePlayer(t, clipSource{samples.SnareDrum01: testClip(t)})
	if err := p.SelectEngine(engine.KindOto, engine.LayoutStereo); err != nil {
		t.Fatal(err)
	}

	for _, i := range []int{-1, reverb.PresetCount} {
		if err := p.ApplyPreset(i, true); !errors.Is(err, ErrPresetIndex) {
			t.Errorf("ApplyPreset(%d) = %v", i, err)
		}
	}

	if err := p.ApplyPreset(9, true); err != nil {
		t.Fatal(err)
	}
	if got := p.Context().ReverbParameters(); got != reverb.PresetAt(9).Parameters {
		t.Errorf("context parameters = %+v", got)
	}

	if err := p.SetReverbEnabled(false); err != nil {
		t.Fatal(err)
	}
	if s := p.Status(); s.ReverbEnabled || s.Preset != 9 {
		t.Errorf("status = %+v", s)
	}

	bad := reverb.DefaultParameters()
	bad.WetDryMix = 101
	if err := p.ChangeEffect(true, bad); !errors.Is(err, engine.ErrEffectParameters) {
		t.Errorf("invalid parameters err = %v", err)
	}
	if s := p.Status(); s.Preset != 9 || s.ReverbEnabled {
		t.Errorf("rejected parameters changed status: %+v", s)
	}
}

func TestPlayer_Shutdown(t *testing.T) {
	t.Parallel()

	p, fakes := fakePlayer(t, clipSource{samples.SnareDrum01: testClip(t)})
	if err := p.SelectEngine(engine.KindOto, engine.LayoutStereo); err != nil {
		t.Fatal(err)
	}

	for range 2 {
		if err := p.Shutdown(); err != nil {
			t.Fatal(err)
		}
	}

	if !fakes[engine.KindOto].LastDevice().Closed() {
		t.Error("device left open")
	}
	if err := p.Play(); !errors.Is(err, ErrNoContext) {
		t.Errorf("Play after Shutdown = %v", err)
	}
}

func TestPlayer_SelectSample(t *testing.T) {
	t.Parallel()

	second := testClip(t)
	p, fakes := fakePlayer(t, clipSource{samples.SnareDrum02: second})

	if err := p.SelectSample(samples.SnareDrum02, false); err != nil {
		t.Fatal(err)
	}
	if err := p.SelectEngine(engine.KindBeep, engine.LayoutStereo); err != nil {
		t.Fatal(err)
	}
	if liveVoice(t, fakes[engine.KindBeep]).Clip != second {
		t.Error("SelectEngine did not load the selected sample")
	}

	if err := p.SelectSample(samples.SnareDrum01, false); !errors.Is(err, errMissing) {
		t.Errorf("SelectSample with a context = %v, want errMissing", err)
	}
}
