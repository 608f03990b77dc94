// SPDX-License-Identifier: EPL-2.0

// Package beep is the engine backend built on a gopxl/beep mixer graph.
//
// The mastering voice is a beep.Mixer and each voice is the chain
//
//	buffer queue -> beep.Resampler -> reverb -> effects.Volume -> beep.Ctrl
//
// The graph is stereo, so a 5.1 layout fails to create the mastering voice.
// Voices are created without effects and the reverb is attached afterwards;
// Play queues the clip and its silence tail as two submissions.
package beep
