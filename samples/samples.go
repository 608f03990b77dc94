// SPDX-License-Identifier: EPL-2.0

// Package samples names the bundled drum samples and loads them from disk.
package samples

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ik5/audfx/audio"
)

// Sample ids.
const (
	SnareDrum01 = iota
	SnareDrum02
	SnareDrum03
)

// Count is the number of known samples.
const Count = 3

var (
	ErrUnknownSample = errors.New("samples: unknown sample id")
	ErrNotFound      = errors.New("samples: no file for sample")
)

var table = [Count]struct {
	label, base string
}{
	SnareDrum01: {"Snare Drum (Forte)", "SnareDrum01"},
	SnareDrum02: {"Snare Drum (Fortissimo)", "SnareDrum02"},
	SnareDrum03: {"Snare Drum (Mezzo-Forte)", "SnareDrum03"},
}

// Label is the display name of id, or "" if id is unknown.
func Label(id int) string {
	if id < 0 || id >= Count {
		return ""
	}

	return table[id].label
}

// Labels lists every label in id order.
func Labels() []string {
	out := make([]string, Count)
	for i := range table {
		out[i] = table[i].label
	}

	return out
}

// FileBase is the file name of id without extension. Stereo variants carry
// a "_stereo" suffix.
func FileBase(id int, stereo bool) (string, error) {
	if id < 0 || id >= Count {
		return "", fmt.Errorf("%w: %d", ErrUnknownSample, id)
	}

	base := table[id].base
	if stereo {
		base += "_stereo"
	}

	return base, nil
}

// Library loads samples from Dir, trying each format registered in Registry
// in sorted key order.
type Library struct {
	Dir      string
	Registry *audio.Registry
}

// Path finds the first existing file for id.
func (l *Library) Path(id int, stereo bool) (string, string, error) {
	base, err := FileBase(id, stereo)
	if err != nil {
		return "", "", err
	}

	for _, ext := range l.Registry.Formats() {
		p := filepath.Join(l.Dir, base+"."+ext)
		if _, err := os.Stat(p); err == nil {
			return p, ext, nil
		}
	}

	return "", "", fmt.Errorf("%w: %s in %s (tried %v)", ErrNotFound, base, l.Dir, l.Registry.Formats())
}

// Load decodes the file for id into a clip.
func (l *Library) Load(id int, stereo bool) (*audio.Clip, error) {
	path, format, err := l.Path(id, stereo)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer f.Close()

	src, err := l.Registry.Decode(format, f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	clip, err := audio.ReadClip(src)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return clip, nil
}
