package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a fixed-length raw wave, optionally gliding from
// freq to glide over its duration.
type oscillator struct {
	freq     float64
	glide    float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return newGlide(freq, freq, duration, wave, rate)
}

func newGlide(from, to float64, duration time.Duration, wave WaveType, rate beep.SampleRate) *oscillator {
	return &oscillator{
		freq:     from,
		glide:    to,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(1)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		f := o.freq + (o.glide-o.freq)*float64(o.position)/float64(o.duration)
		o.phase += f / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if rs := e.total - e.release; e.release > 0 && e.position >= rs {
			vol = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales linearly; zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func tone(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(NewOscillator(freq, d, wave, rate), d, 5*time.Millisecond, d/2, rate)
}

func chirp(from, to float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(newGlide(from, to, d, wave, rate), d, 5*time.Millisecond, d/2, rate)
}

// arpeggio plays notes back to back.
func arpeggio(rate beep.SampleRate, d time.Duration, freqs ...float64) beep.Streamer {
	parts := make([]beep.Streamer, len(freqs))
	for i, f := range freqs {
		parts[i] = tone(f, d, WaveSine, rate)
	}
	return beep.Seq(parts...)
}

// buildEffect returns a fresh streamer for name, or nil if unknown.
func buildEffect(name string, rate beep.SampleRate) beep.Streamer {
	switch name {
	case SFXGrab:
		return tone(660, 40*time.Millisecond, WaveSquare, rate)
	case SFXRelease:
		return tone(440, 40*time.Millisecond, WaveSquare, rate)
	case SFXReset:
		return chirp(300, 600, 90*time.Millisecond, WaveSine, rate)
	case SFXLand:
		return beep.Mix(
			newVolume(tone(90, 120*time.Millisecond, WaveSine, rate), 0.8),
			newVolume(tone(0, 60*time.Millisecond, WaveNoise, rate), 0.2),
		)
	case SFXPerfect:
		return arpeggio(rate, 70*time.Millisecond, 523.25, 659.25, 783.99, 1046.5)
	case SFXGreat:
		return arpeggio(rate, 80*time.Millisecond, 523.25, 659.25, 783.99)
	case SFXGood:
		return arpeggio(rate, 90*time.Millisecond, 523.25, 659.25)
	case SFXMiss:
		return chirp(220, 140, 180*time.Millisecond, WaveSaw, rate)
	}
	return nil
}
