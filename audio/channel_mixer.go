// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Downmix weight for center and surround channels folded into a front pair.
const foldGain = 0.70710677

// ChannelMixer maps a source onto a different channel count.
//
//   - to mono: channels are averaged
//   - from mono: the signal goes to the front pair (or the only channel)
//   - 5.1 to stereo: center and surrounds are folded into left and right
//   - otherwise: shared leading channels are copied, the rest are silent
type ChannelMixer struct {
	src Source
	out int
	tmp []float32
}

// NewChannelMixer returns a mixer producing channels outputs. It panics on a
// non-positive count, which is a programming error.
func NewChannelMixer(src Source, channels int) *ChannelMixer {
	if channels <= 0 {
		panic(fmt.Sprintf("%v: %d", ErrInvalidChannels, channels))
	}

	return &ChannelMixer{
		src: src,
		out: channels,
		tmp: make([]float32, 4096),
	}
}

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.out }
func (m *ChannelMixer) BufSize() int    { return m.src.BufSize() }
func (m *ChannelMixer) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *ChannelMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%m.out != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	in := m.src.Channels()
	if in == m.out {
		return m.src.ReadSamples(dst)
	}

	maxFrames := len(dst) / m.out
	samplesNeeded := maxFrames * in

	// grow, never shrink
	if cap(m.tmp) < samplesNeeded {
		m.tmp = make([]float32, max(samplesNeeded, 8192))
	}
	tmp := m.tmp[:samplesNeeded]

	n, err := m.src.ReadSamples(tmp)
	frames := n / in
	if frames == 0 {
		return 0, err
	}

	switch {
	case m.out == 1:
		mixToMono(dst, tmp, frames, in)
	case in == 1:
		for f := range frames {
			o := dst[f*m.out : (f+1)*m.out]
			clear(o)
			o[0] = tmp[f]
			o[1] = tmp[f]
		}
	case in == 6 && m.out == 2:
		for f := range frames {
			s := tmp[f*6 : f*6+6]
			// FL FR C LFE SL SR
			dst[f*2] = s[0] + foldGain*(s[2]+s[4])
			dst[f*2+1] = s[1] + foldGain*(s[2]+s[5])
		}
	default:
		shared := min(in, m.out)
		for f := range frames {
			o := dst[f*m.out : (f+1)*m.out]
			copy(o, tmp[f*in:f*in+shared])
			clear(o[shared:])
		}
	}

	return frames * m.out, err
}

func mixToMono(dst, src []float32, frames, channels int) {
	invChannels := float32(1.0) / float32(channels)

	switch channels {
	case 2:
		for f := range frames {
			idx := f << 1
			dst[f] = (src[idx] + src[idx+1]) * 0.5
		}
	case 4:
		for f := range frames {
			idx := f << 2
			dst[f] = (src[idx] + src[idx+1] + src[idx+2] + src[idx+3]) * 0.25
		}
	default:
		for f := range frames {
			sum := float32(0)
			base := f * channels
			for c := range channels {
				sum += src[base+c]
			}
			dst[f] = sum * invChannels
		}
	}
}
