// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming building blocks the engines are made
// of.
//
//   - Source, the pull interface every decoder and processor implements
//   - Registry, mapping format keys such as "wav" to a Decoder
//   - Clip and ReadClip, a fully decoded sample and the drain that builds it
//   - Resampler, rate conversion with an adjustable playback ratio
//   - ChannelMixer, mapping between mono, stereo and 5.1 layouts
//
// # Sample Format
//
// Samples are interleaved float32 in [-1, 1]. Counts passed to and returned
// by ReadSamples are samples, not frames, and destinations must hold whole
// frames.
//
// # Chaining
//
// Processors wrap a Source and are themselves Sources:
//
//	rs := audio.NewResampler(decoded, 48000)
//	_ = rs.SetRatio(1.5)
//	out := audio.NewChannelMixer(rs, 2)
//
// # End of Stream
//
// ReadSamples returns io.EOF, possibly together with the last samples, once
// a stream is exhausted:
//
//	for {
//	    n, err := src.ReadSamples(buf)
//	    process(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
