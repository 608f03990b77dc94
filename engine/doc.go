// SPDX-License-Identifier: EPL-2.0

// Package engine is the backend-agnostic core: a Context bound to one audio
// backend, the single Voice it plays, and the reverb effect attached to that
// voice.
//
// A backend implements three small interfaces. Backend opens a Device (the
// engine plus its mastering voice at SampleRate), a Device creates
// NativeVoices, and a NativeVoice carries the per-voice calls. The backends
// live in backends/oto and backends/beep; NewBackend in the root package maps
// a Kind to one of them.
//
// # Lifecycle
//
//	ctx, err := engine.New(backend, engine.LayoutStereo,
//	    engine.WithSampleSource(lib))
//	if err != nil {
//	    // wraps ErrEngineInit or ErrMasteringVoice
//	}
//	defer ctx.Shutdown()
//
//	_ = ctx.LoadSample(samples.SnareDrum01, true)
//	_ = ctx.ChangeEffect(true, reverb.PresetAt(0).Parameters)
//	_ = ctx.Play()
//
// Loading destroys the previous voice before creating the next, so a context
// never has more than one. Every voice starts with the context's current
// reverb block and enabled flag, at unit volume and ratio.
//
// # Reverb
//
// ChangeEffect stores the block and always pushes it to the live voice. The
// enable toggle is edge-triggered against the stored flag, so repeating the
// same state costs no native call. ChangeEffectTest carries the tunable
// 132-byte form instead of the 52-byte native one.
package engine
