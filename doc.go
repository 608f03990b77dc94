// SPDX-License-Identifier: EPL-2.0

// Package audfx plays short decoded samples through a choice of audio
// engines and runs a live, reconfigurable reverb on the playing voice.
//
// The work is split across subpackages:
//   - engine: the backend-agnostic Context and Voice
//   - backends/oto and backends/beep: the two engines
//   - reverb: the parameter blocks, their wire format and the presets
//   - samples: the sample table and the on-disk library
//   - audio and formats/*: decoding and stream processing
//
// This package ties them together. NewBackend maps an engine.Kind to a
// backend, and Player is the control surface an interface drives.
//
// # Quick Start
//
//	lib := audfx.NewLibrary("samples")
//	p := audfx.NewPlayer(lib, audfx.Options{})
//	defer p.Shutdown()
//
//	if err := p.SelectEngine(engine.KindOto, engine.LayoutStereo); err != nil {
//	    log.Fatal(err)
//	}
//	_ = p.ApplyPreset(0, true)
//	_ = p.Play()
//
// # Switching Engines
//
// SelectEngine builds the new context before shutting the old one down, so
// a failed switch leaves the previous engine playing. The current sample is
// reloaded and the current reverb settings carried over.
//
// # Offline Rendering
//
// An Offline output in Options makes the backends render only on demand:
//
//	off := audfx.NewOffline()
//	p := audfx.NewPlayer(lib, audfx.Options{Offline: off})
//	...
//	pcm, err := audfx.RenderPCM16(off, 2*engine.SampleRate, 4096)
package audfx
