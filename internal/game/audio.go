package game

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/fennweller/ember-city/internal/config"
	"github.com/fennweller/ember-city/internal/sim"
)

const sampleRate = beep.SampleRate(48000)

// SoundManager owns the mixer: the two-tone siren while a drone mission is
// active, the spray hiss while extinguishing, and short one-shot cues on
// score changes. Volumes come from the loaded config.
type SoundManager struct {
	mu          sync.Mutex
	volumes     config.AudioConfig
	sirenCtrl   *beep.Ctrl
	siren       *SirenGenerator
	hissCtrl    *beep.Ctrl
	mixer       *beep.Mixer
	initialized bool
}

func NewSoundManager(volumes config.AudioConfig) *SoundManager {
	return &SoundManager{
		volumes: volumes,
		mixer:   &beep.Mixer{},
	}
}

// Initialize opens the speaker. Callers may continue without audio when
// this fails; every Play method is a no-op until initialized.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences everything.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	if sm.sirenCtrl != nil {
		sm.sirenCtrl.Paused = true
	}
	if sm.hissCtrl != nil {
		sm.hissCtrl.Paused = true
	}
	sm.mixer.Clear()
	sm.initialized = false
}

// OnMode is wired as the mission's mode sink: siren while the drone is
// out, hiss only while extinguishing.
func (sm *SoundManager) OnMode(mode sim.Mode) {
	switch mode {
	case sim.ModeDriving:
		sm.stopSiren()
		sm.stopHiss()
	case sim.ModeFlyingToFire:
		sm.startSiren()
		sm.stopHiss()
	case sim.ModeExtinguishing:
		sm.startSiren()
		sm.startHiss()
	}
}

// OnScore is wired as the mission's score sink: a rising chime for a
// bonus, a low buzz for a penalty.
func (sm *SoundManager) OnScore(delta, _ int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	vol := sm.volumes.Master * sm.volumes.Effects
	if delta >= 0 {
		sm.mixer.Add(beep.Take(sampleRate.N(time.Millisecond*350), NewChimeGenerator(sampleRate, vol)))
	} else {
		sm.mixer.Add(beep.Take(sampleRate.N(time.Millisecond*250), NewBuzzGenerator(sampleRate, 110, vol)))
	}
}

// SetSirenPitch nudges the siren's base pitch with vehicle speed, speed in
// [0,1] of maximum.
func (sm *SoundManager) SetSirenPitch(speed float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.siren != nil {
		sm.siren.SetShift(speed * 60)
	}
}

func (sm *SoundManager) startSiren() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	if sm.sirenCtrl != nil {
		sm.sirenCtrl.Paused = false
		return
	}
	sm.siren = NewSirenGenerator(sampleRate, sm.volumes.Master*sm.volumes.Siren)
	ctrl := &beep.Ctrl{Streamer: beep.Loop(-1, sm.siren), Paused: false}
	sm.sirenCtrl = ctrl
	sm.mixer.Add(ctrl)
}

func (sm *SoundManager) stopSiren() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.sirenCtrl != nil {
		sm.sirenCtrl.Paused = true
	}
}

func (sm *SoundManager) startHiss() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	if sm.hissCtrl != nil {
		sm.hissCtrl.Paused = false
		return
	}
	gen := NewHissGenerator(sampleRate, sm.volumes.Master*sm.volumes.Effects)
	ctrl := &beep.Ctrl{Streamer: beep.Loop(-1, gen), Paused: false}
	sm.hissCtrl = ctrl
	sm.mixer.Add(ctrl)
}

func (sm *SoundManager) stopHiss() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.hissCtrl != nil {
		sm.hissCtrl.Paused = true
	}
}

// SirenGenerator produces a two-tone emergency wail: the carrier sweeps
// between two frequencies on a slow cycle.
type SirenGenerator struct {
	sr      beep.SampleRate
	pos     int
	samples int
	vol     float64
	shift   float64 // extra Hz added to both tones
}

func NewSirenGenerator(sr beep.SampleRate, vol float64) *SirenGenerator {
	return &SirenGenerator{
		sr:      sr,
		samples: sr.N(time.Second * 3), // full low-high-low cycle
		vol:     vol,
	}
}

// SetShift raises both siren tones by the given Hz.
func (g *SirenGenerator) SetShift(hz float64) {
	g.shift = hz
}

func (g *SirenGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		cyclePos := float64(g.pos%g.samples) / float64(g.samples)

		// Sweep 440 → 660 Hz and back.
		freq := 440 + 220*0.5*(1-math.Cos(cyclePos*2*math.Pi)) + g.shift
		sample := 0.2 * g.vol * math.Sin(2*math.Pi*freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *SirenGenerator) Err() error { return nil }

// HissGenerator produces filtered noise for the water spray.
type HissGenerator struct {
	sr   beep.SampleRate
	seed int64
	prev float64
	vol  float64
}

func NewHissGenerator(sr beep.SampleRate, vol float64) *HissGenerator {
	return &HissGenerator{sr: sr, seed: 1, vol: vol}
}

func (g *HissGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1
		// One-pole low-pass softens the noise into a spray.
		g.prev = g.prev*0.7 + noise*0.3
		sample := 0.12 * g.vol * g.prev
		samples[i][0] = sample
		samples[i][1] = sample
	}
	return len(samples), true
}

func (g *HissGenerator) Err() error { return nil }

// ChimeGenerator produces a short two-note rising cue.
type ChimeGenerator struct {
	sr  beep.SampleRate
	pos int
	vol float64
}

func NewChimeGenerator(sr beep.SampleRate, vol float64) *ChimeGenerator {
	return &ChimeGenerator{sr: sr, vol: vol}
}

func (g *ChimeGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	half := g.sr.N(time.Millisecond * 175)
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		freq := 523.25 // C5
		if g.pos >= half {
			freq = 783.99 // G5
		}
		envelope := math.Exp(-t * 6)
		sample := 0.25 * g.vol * envelope * math.Sin(2*math.Pi*freq*t)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ChimeGenerator) Err() error { return nil }

// BuzzGenerator produces a harsh low buzz for penalties.
type BuzzGenerator struct {
	sr   beep.SampleRate
	freq float64
	vol  float64
	pos  int
}

func NewBuzzGenerator(sr beep.SampleRate, freq, vol float64) *BuzzGenerator {
	return &BuzzGenerator{sr: sr, freq: freq, vol: vol}
}

func (g *BuzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		sample := 0.0
		sample += 0.3 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.15 * math.Sin(2*math.Pi*g.freq*2*t)
		envelope := math.Min(float64(g.pos)/float64(g.sr)/0.02, 1.0)
		sample *= envelope * 0.2 * g.vol
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BuzzGenerator) Err() error { return nil }
