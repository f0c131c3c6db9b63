package speech

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// AudioDuration decodes MP3 audio far enough to know its playback length.
// go-mp3 always decodes to 16-bit stereo, 4 bytes per sample frame.
func AudioDuration(audio []byte) (time.Duration, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(audio))
	if err != nil {
		return 0, fmt.Errorf("decode mp3: %w", err)
	}

	rate := dec.SampleRate()
	length := dec.Length()
	if rate <= 0 || length < 0 {
		return 0, errors.New("mp3 length unknown")
	}

	frames := length / 4
	return time.Duration(frames) * time.Second / time.Duration(rate), nil
}
