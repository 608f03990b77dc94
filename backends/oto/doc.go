// SPDX-License-Identifier: EPL-2.0

// Package oto is the engine backend that mixes voices itself and hands the
// result to an oto player.
//
// Each voice is a pull chain built from the audio package:
//
//	buffer queue -> Resampler -> reverb -> ChannelMixer -> volume
//
// and the device sums the voices into the mastering stream. Stereo and 5.1
// layouts are supported. The reverb must be given when the voice is created,
// and Play queues the clip and its silence tail as one submission.
package oto
