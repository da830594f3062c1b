package audio

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
)

func drain(t *testing.T, s beep.Streamer) int {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		total += n
		for _, smp := range buf[:n] {
			if math.IsNaN(smp[0]) || math.Abs(smp[0]) > 1.0001 {
				t.Fatalf("sample out of range: %v", smp)
			}
		}
		if !ok {
			return total
		}
	}
	t.Fatal("stream never ended")
	return total
}

func TestOscillatorLength(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440, 100*time.Millisecond, WaveSine, rate)
	if got := drain(t, osc); got != rate.N(100*time.Millisecond) {
		t.Errorf("expected %d samples, got %d", rate.N(100*time.Millisecond), got)
	}
	if osc.Err() != nil {
		t.Errorf("unexpected error: %v", osc.Err())
	}
}

func TestEnvelopeEdges(t *testing.T) {
	rate := beep.SampleRate(1000)
	env := NewEnvelope(NewOscillator(0, 100*time.Millisecond, WaveSquare, rate), 100*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, rate)
	buf := make([][2]float64, 100)
	n, _ := env.Stream(buf)
	if n != 100 {
		t.Fatalf("expected 100 samples, got %d", n)
	}
	if buf[0][0] != 0 {
		t.Errorf("attack should start silent, got %v", buf[0][0])
	}
	if buf[50][0] != 1 {
		t.Errorf("sustain should be full volume, got %v", buf[50][0])
	}
}

func TestEffectsEnd(t *testing.T) {
	for _, name := range []string{SFXGrab, SFXRelease, SFXReset, SFXLand, SFXPerfect, SFXGreat, SFXGood, SFXMiss} {
		t.Run(name, func(t *testing.T) {
			s := buildEffect(name, sampleRate)
			if s == nil {
				t.Fatal("missing effect")
			}
			if drain(t, s) == 0 {
				t.Error("effect produced no samples")
			}
		})
	}
	if buildEffect("fanfare", sampleRate) != nil {
		t.Error("unknown effect should be nil")
	}
}

func TestScoreEffect(t *testing.T) {
	tests := map[int]string{100: SFXPerfect, 60: SFXGreat, 25: SFXGood, 0: SFXMiss}
	for points, want := range tests {
		if got := ScoreEffect(points); got != want {
			t.Errorf("ScoreEffect(%d) = %q, want %q", points, got, want)
		}
	}
}

func TestUninitializedIsSilent(t *testing.T) {
	sm := NewSoundManager(0.5, log.New(io.Discard))
	sm.PlaySFX(SFXGrab)
	sm.PlayScore(100)
	sm.PlaySFX("nope")
	sm.Close()
	if sm.Initialized() {
		t.Error("manager should not report initialized")
	}

	var p Player = Silent{}
	p.PlaySFX(SFXLand)
	p.PlayScore(60)
}
