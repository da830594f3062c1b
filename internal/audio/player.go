// Package audio plays short synthesized sound effects. Playback is fire
// and forget: when no output device is available every call is a no-op.
package audio

// Effect names understood by PlaySFX.
const (
	SFXGrab    = "grab"
	SFXRelease = "release"
	SFXReset   = "reset"
	SFXLand    = "land"
	SFXPerfect = "perfect"
	SFXGreat   = "great"
	SFXGood    = "good"
	SFXMiss    = "miss"
)

// Player is the sound collaborator the driver talks to.
type Player interface {
	PlaySFX(name string)
	PlayScore(points int)
}

// Silent discards every request.
type Silent struct{}

func (Silent) PlaySFX(string) {}
func (Silent) PlayScore(int)  {}

// ScoreEffect maps awarded points to an effect name.
func ScoreEffect(points int) string {
	switch {
	case points >= 100:
		return SFXPerfect
	case points >= 60:
		return SFXGreat
	case points > 0:
		return SFXGood
	}
	return SFXMiss
}
