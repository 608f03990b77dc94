// SPDX-License-Identifier: EPL-2.0

package audfx

import (
	"fmt"
	"slices"

	"github.com/ik5/audfx/internal/device"
	"github.com/ik5/audfx/utils"
)

// Offline is an output that produces audio only when rendered. Every engine
// opened on it shares it; Render reads the most recently opened one.
type Offline struct {
	out *device.Manual
}

func NewOffline() *Offline { return &Offline{out: device.NewManual()} }

// Channels is the channel count of the engine Render reads, or 0 when none
// is open.
func (o *Offline) Channels() int { return o.out.Active().Channels }

// Render mixes the next frames frames as interleaved float32.
func (o *Offline) Render(frames int) ([]float32, error) {
	s, err := o.out.PullFrames(frames)
	if err != nil {
		return nil, fmt.Errorf("rendering %d frames: %w", frames, err)
	}

	return s, nil
}

// RenderPCM16 renders frames frames in chunks of chunkFrames and collects
// them as interleaved 16-bit PCM.
func RenderPCM16(o *Offline, frames, chunkFrames int) ([]int16, error) {
	if chunkFrames <= 0 {
		chunkFrames = 4096
	}

	pcm16 := make([]int16, 0, frames*max(o.Channels(), 1))

	for done := 0; done < frames; {
		n := min(chunkFrames, frames-done)

		buf, err := o.Render(n)
		if err != nil {
			return nil, err
		}

		start := len(pcm16)
		pcm16 = slices.Grow(pcm16, len(buf))[:start+len(buf)]
		utils.PCM16(pcm16[start:], buf)

		done += n
	}

	return pcm16, nil
}
