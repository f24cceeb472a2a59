// Package audio plays the short sound effects of the scene, such as the
// blinker relay click.
package audio

import (
	"bytes"
	"fmt"
	"io"
	gomath "math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/roadloop/internal/logger"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Relay click shape.
const (
	clickDuration = 25 * time.Millisecond
	clickDecay    = 180.0 // 1/s
	clickAmp      = 0.35
	clickHighHz   = 1800.0
	clickLowHz    = 1100.0
)

// Manager owns the speaker and a mixer that sound effects are added to.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer

	volume float64 // 0.0 to 1.0
	muted  bool

	// Relay sounds for the two phases of the blinker.
	clickHigh *beep.Buffer
	clickLow  *beep.Buffer

	log *zap.Logger
}

// New creates a new audio manager with volume in [0, 1].
func New(volume float64) *Manager {
	return &Manager{
		sampleRate: DefaultSampleRate,
		mixer:      &beep.Mixer{},
		volume:     clamp(volume, 0, 1),
		log:        logger.Named("audio"),
	}
}

// Init opens the speaker and synthesizes the click sounds.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	if m.clickHigh == nil {
		m.clickHigh = synthClick(m.sampleRate, clickHighHz)
	}
	if m.clickLow == nil {
		m.clickLow = synthClick(m.sampleRate, clickLowHz)
	}

	m.initialized = true
	m.log.Info("audio initialized", zap.Int("sample_rate", int(m.sampleRate)), zap.Float64("volume", m.volume))
	return nil
}

// Close shuts down the audio system.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.initialized = false
}

// IsInitialized returns whether the audio system is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetVolume sets the effect volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clamp(vol, 0, 1)
}

// Volume returns the effect volume.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// SetMuted silences every effect without touching the volume.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

// Muted reports whether effects are silenced.
func (m *Manager) Muted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.muted
}

// LoadClickWAV replaces both click sounds with a WAV sample. The low click
// plays the sample at reduced volume.
func (m *Manager) LoadClickWAV(data []byte) error {
	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	var s beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		s = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
	}

	out := beep.Format{SampleRate: m.sampleRate, NumChannels: 2, Precision: 2}
	high := beep.NewBuffer(out)
	high.Append(s)
	low := beep.NewBuffer(out)
	low.Append(&effects.Volume{Streamer: high.Streamer(0, high.Len()), Base: 2, Volume: -1})

	m.clickHigh, m.clickLow = high, low
	m.log.Debug("click sample loaded", zap.Int("samples", high.Len()))
	return nil
}

// PlayClick plays one relay click: high when the blinker turns on, low when
// it turns off. It is a no-op before Init or while muted.
func (m *Manager) PlayClick(high bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized || m.muted || m.volume <= 0 {
		return
	}

	buf := m.clickLow
	if high {
		buf = m.clickHigh
	}
	if buf == nil || buf.Len() == 0 {
		return
	}

	vol := &effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   gainExponent(m.volume),
	}

	speaker.Lock()
	m.mixer.Add(vol)
	speaker.Unlock()
}

// synthClick renders a short square burst with an exponential decay.
func synthClick(sr beep.SampleRate, freq float64) *beep.Buffer {
	n := sr.N(clickDuration)
	pos := 0
	gen := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		count := 0
		for i := range samples {
			if pos >= n {
				break
			}
			t := float64(pos) / float64(sr)
			v := clickAmp * gomath.Exp(-clickDecay*t)
			if gomath.Sin(2*gomath.Pi*freq*t) < 0 {
				v = -v
			}
			samples[i] = [2]float64{v, v}
			pos++
			count++
		}
		return count, true
	})

	buf := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	buf.Append(gen)
	return buf
}

// gainExponent converts a linear 0-1 volume to the base-2 exponent used by
// effects.Volume.
func gainExponent(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return gomath.Log2(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
