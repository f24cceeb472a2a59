package audio

import (
	gomath "math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

func TestGainExponent(t *testing.T) {
	tests := []struct {
		vol  float64
		want float64
	}{
		{1.0, 0},
		{0.5, -1},
		{0.25, -2},
		{0.0, -100},
	}

	for _, tt := range tests {
		if got := gainExponent(tt.vol); gomath.Abs(got-tt.want) > 1e-9 {
			t.Errorf("gainExponent(%f) = %f, want %f", tt.vol, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}

	for _, tt := range tests {
		got := clamp(tt.v, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestNewManager(t *testing.T) {
	m := New(2.0)
	if m.Volume() != 1.0 {
		t.Errorf("volume = %f, want 1.0 (clamped)", m.Volume())
	}
	if m.IsInitialized() {
		t.Error("manager must not be initialized before Init")
	}

	m.SetVolume(0.4)
	if m.Volume() != 0.4 {
		t.Errorf("volume = %f, want 0.4", m.Volume())
	}
	m.SetMuted(true)
	if !m.Muted() {
		t.Error("SetMuted(true) not applied")
	}
}

func TestPlayClickBeforeInit(t *testing.T) {
	m := New(1)
	// Must not touch the speaker.
	m.PlayClick(true)
	m.PlayClick(false)
	m.Close()
}

func TestSynthClick(t *testing.T) {
	buf := synthClick(DefaultSampleRate, clickHighHz)

	if want := DefaultSampleRate.N(clickDuration); buf.Len() != want {
		t.Fatalf("click length = %d samples, want %d", buf.Len(), want)
	}

	samples := make([][2]float64, buf.Len())
	n, _ := buf.Streamer(0, buf.Len()).Stream(samples)
	if n != buf.Len() {
		t.Fatalf("streamed %d samples, want %d", n, buf.Len())
	}

	peak := func(from, to int) float64 {
		var p float64
		for _, s := range samples[from:to] {
			p = gomath.Max(p, gomath.Abs(s[0]))
		}
		return p
	}
	head, tail := peak(0, n/4), peak(3*n/4, n)
	if head > clickAmp+1e-3 {
		t.Errorf("peak %f exceeds amplitude %f", head, clickAmp)
	}
	if tail >= head {
		t.Errorf("click does not decay: head %f, tail %f", head, tail)
	}
}

func TestLoadClickWAV(t *testing.T) {
	format := beep.Format{SampleRate: 22050, NumChannels: 2, Precision: 2}
	src := synthClick(format.SampleRate, clickLowHz)

	path := filepath.Join(t.TempDir(), "click.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := wav.Encode(f, src.Streamer(0, src.Len()), format); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	m := New(1)
	if err := m.LoadClickWAV(data); err != nil {
		t.Fatalf("LoadClickWAV: %v", err)
	}
	// Resampled from 22050 Hz to the speaker rate, so roughly twice as long.
	if m.clickHigh.Len() < src.Len()*3/2 {
		t.Errorf("resampled click has %d samples, source %d", m.clickHigh.Len(), src.Len())
	}
	if m.clickLow.Len() != m.clickHigh.Len() {
		t.Errorf("low click length %d != high %d", m.clickLow.Len(), m.clickHigh.Len())
	}

	if err := m.LoadClickWAV([]byte("RIFF")); err == nil {
		t.Error("expected error for invalid wav data")
	}
}
