// SPDX-License-Identifier: EPL-2.0

// Package reverb defines the reverb parameter blocks exchanged with the effect
// processor, their wire encoding, and the stock preset list.
//
// # Parameter Forms
//
// Three representations exist:
//
//   - Parameters is the native block. Its encoding is fixed: fields in
//     declaration order, little-endian, no padding, NativeSize bytes.
//   - TestParameters is a superset of Parameters with per-element tuning of
//     the comb and allpass network. Its first NativeSize bytes are a valid
//     native block, so a processor can accept either size.
//   - I3DL2Parameters is the perceptual form used by the environment presets.
//     It is only a conversion input and is never sent to the processor.
//
// Converting between the first two:
//
//	t := reverb.Extend(p)   // no tuning, processor defaults apply
//	p = t.Native()          // tuning dropped
//
// A processor receiving raw bytes should decode with ParseBlock, which accepts
// both sizes and rejects anything else with ErrInvalidSize.
//
// # Presets
//
// The list starts with "Default", the processor defaults at a 20% wet mix,
// followed by the classic I3DL2 environments (Generic, Padded Cell, Room, ...
// Plate) converted once at package initialization:
//
//	for i := range reverb.PresetCount {
//		p := reverb.PresetAt(i)
//		fmt.Println(p.Name, p.Parameters.DecayTime)
//	}
//
// PresetAt panics on an out-of-range index; LookupPreset is the
// error-returning variant keyed by name.
package reverb
