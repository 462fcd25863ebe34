// Package audio plays background music and short gameplay cues.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the speaker sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

var (
	// ErrNotInitialized is returned when playing before Init.
	ErrNotInitialized = errors.New("audio not initialized")
	// ErrUnknownCue is returned for cues that were never loaded.
	ErrUnknownCue = errors.New("unknown sound cue")
)

// Cue names a one-shot sound effect.
type Cue string

const (
	CueHit      Cue = "hit"
	CueGameOver Cue = "gameover"
)

// Settings are the initial mixer levels, each 0..1.
type Settings struct {
	MasterVolume float64
	MusicVolume  float64
	SFXVolume    float64
	Muted        bool
}

// Manager owns the speaker, the music track and decoded cues.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	// Music
	musicStreamer beep.StreamSeekCloser
	musicCtrl     *beep.Ctrl
	musicVolume   *effects.Volume
	musicPlaying  bool
	musicPath     string

	// Levels
	master   float64
	musicLvl float64
	sfxLvl   float64
	muted    bool

	cues     map[Cue]*beep.Buffer
	sfxMixer *beep.Mixer
}

// New creates a manager. Cues can be loaded before Init.
func New(s Settings) *Manager {
	return &Manager{
		sampleRate: DefaultSampleRate,
		master:     clamp(s.MasterVolume, 0, 1),
		musicLvl:   clamp(s.MusicVolume, 0, 1),
		sfxLvl:     clamp(s.SFXVolume, 0, 1),
		muted:      s.Muted,
		cues:       make(map[Cue]*beep.Buffer),
		sfxMixer:   &beep.Mixer{},
	}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.sfxMixer)

	m.initialized = true
	return nil
}

// Close stops playback and releases the music stream.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopMusic()
	if m.initialized {
		speaker.Clear()
	}
	m.initialized = false
}

// IsInitialized reports whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master level (0..1).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.master = clamp(vol, 0, 1)
	m.applyMusicVolume()
}

// SetMusicVolume sets the music level (0..1).
func (m *Manager) SetMusicVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.musicLvl = clamp(vol, 0, 1)
	m.applyMusicVolume()
}

// SetSFXVolume sets the cue level (0..1).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxLvl = clamp(vol, 0, 1)
}

// SetMuted silences or restores all output.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	m.applyMusicVolume()
}

// Levels returns the current master, music and sfx levels.
func (m *Manager) Levels() (master, music, sfx float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.master, m.musicLvl, m.sfxLvl
}

// Muted reports whether output is muted.
func (m *Manager) Muted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.muted
}

func (m *Manager) effective(level float64) float64 {
	if m.muted {
		return 0
	}
	return m.master * level
}

func (m *Manager) applyMusicVolume() {
	if m.musicVolume == nil {
		return
	}
	vol := m.effective(m.musicLvl)
	if m.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	m.musicVolume.Silent = vol <= 0
	m.musicVolume.Volume = volumeToExponent(vol)
}

// volumeToExponent maps a linear 0..1 gain to the exponent of a base-2
// effects.Volume, so 1 is unchanged and 0.5 halves the amplitude.
func volumeToExponent(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// LoadCue decodes WAV data into memory under name.
func (m *Manager) LoadCue(name Cue, data []byte) error {
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode cue %s: %w", name, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(beep.Format{SampleRate: m.sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(m.resample(format, streamer))

	m.mu.Lock()
	m.cues[name] = buf
	m.mu.Unlock()
	return nil
}

// LoadCueFile decodes a WAV file into memory under name.
func (m *Manager) LoadCueFile(name Cue, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read cue %s: %w", name, err)
	}
	return m.LoadCue(name, data)
}

// CueLength returns the decoded length of a cue in samples, or -1.
func (m *Manager) CueLength(name Cue) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if buf, ok := m.cues[name]; ok {
		return buf.Len()
	}
	return -1
}

// PlayCue starts a loaded cue on the effects mixer.
func (m *Manager) PlayCue(name Cue) error {
	m.mu.RLock()
	buf, ok := m.cues[name]
	initialized := m.initialized
	vol := m.effective(m.sfxLvl)
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCue, name)
	}
	if !initialized {
		return ErrNotInitialized
	}
	if vol <= 0 {
		return nil
	}

	speaker.Lock()
	m.sfxMixer.Add(&effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   volumeToExponent(vol),
	})
	speaker.Unlock()
	return nil
}

// PlayMusicFile plays a WAV file as background music.
func (m *Manager) PlayMusicFile(path string, loop bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read music: %w", err)
	}
	return m.PlayMusic(data, path, loop)
}

// PlayMusic replaces the current music with WAV data.
func (m *Manager) PlayMusic(data []byte, path string, loop bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}
	m.stopMusic()

	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode music: %w", err)
	}

	var track beep.Streamer = m.resample(format, streamer)
	if loop {
		track = &loopStreamer{source: streamer, stream: track}
	}

	m.musicCtrl = &beep.Ctrl{Streamer: track}
	m.musicVolume = &effects.Volume{Streamer: m.musicCtrl, Base: 2}
	m.musicStreamer = streamer
	m.musicPath = path
	m.musicPlaying = true
	m.applyMusicVolume()

	speaker.Play(beep.Seq(m.musicVolume, beep.Callback(func() {
		m.mu.Lock()
		m.musicPlaying = false
		m.mu.Unlock()
	})))
	return nil
}

// StopMusic stops the background music.
func (m *Manager) StopMusic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopMusic()
}

func (m *Manager) stopMusic() {
	if m.musicCtrl == nil {
		return
	}
	speaker.Lock()
	m.musicCtrl.Paused = true
	speaker.Unlock()

	speaker.Clear()
	if m.initialized {
		speaker.Play(m.sfxMixer)
	}
	if m.musicStreamer != nil {
		m.musicStreamer.Close()
	}
	m.musicStreamer = nil
	m.musicCtrl = nil
	m.musicVolume = nil
	m.musicPlaying = false
	m.musicPath = ""
}

// IsMusicPlaying reports whether music is playing.
func (m *Manager) IsMusicPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.musicPlaying
}

// MusicPath returns the path of the current music track.
func (m *Manager) MusicPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.musicPath
}

func (m *Manager) resample(format beep.Format, s beep.Streamer) beep.Streamer {
	if format.SampleRate == m.sampleRate {
		return s
	}
	return beep.Resample(4, format.SampleRate, m.sampleRate, s)
}

// loopStreamer rewinds its source whenever the stream runs dry.
type loopStreamer struct {
	source beep.StreamSeekCloser
	stream beep.Streamer
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.stream.Stream(samples[filled:])
		filled += n
		if !ok {
			if err := l.source.Seek(0); err != nil {
				return filled, filled > 0
			}
			if n == 0 && l.source.Len() == 0 {
				return filled, filled > 0
			}
		}
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.source.Err()
}
