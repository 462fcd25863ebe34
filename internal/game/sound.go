package game

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/meadow-run/internal/assets"
	"github.com/Faultbox/meadow-run/internal/config"
	"github.com/Faultbox/meadow-run/internal/engine/audio"
	"github.com/Faultbox/meadow-run/internal/logger"
)

// sound turns run events into cues and owns the background music.
// Every audio failure is logged and the game carries on silently.
type sound struct {
	cfg    config.AudioConfig
	assets *assets.Manager
	audio  *audio.Manager
	log    *zap.Logger
}

func newSound(cfg config.AudioConfig, am *assets.Manager, device bool) *sound {
	s := &sound{
		cfg:    cfg,
		assets: am,
		log:    logger.Named("sound"),
		audio: audio.New(audio.Settings{
			MasterVolume: cfg.MasterVolume,
			MusicVolume:  cfg.MusicVolume,
			SFXVolume:    cfg.SFXVolume,
			Muted:        cfg.Muted,
		}),
	}
	if !device {
		return s
	}

	if err := s.audio.Init(); err != nil {
		s.log.Warn("audio unavailable", zap.Error(err))
		return s
	}
	s.loadCue(audio.CueHit, cfg.HitCue)
	s.loadCue(audio.CueGameOver, cfg.GameOverCue)
	return s
}

func (s *sound) loadCue(cue audio.Cue, name string) {
	if name == "" {
		return
	}
	data, err := s.assets.Load(name)
	if err == nil {
		err = s.audio.LoadCue(cue, data)
	}
	if err != nil {
		s.log.Warn("sound cue unavailable", zap.String("cue", string(cue)), zap.String("file", name), zap.Error(err))
	}
}

func (s *sound) startMusic() {
	if s.cfg.Music == "" || !s.audio.IsInitialized() {
		return
	}
	data, err := s.assets.Load(s.cfg.Music)
	if err == nil {
		err = s.audio.PlayMusic(data, s.cfg.Music, true)
	}
	if err != nil {
		s.log.Warn("music unavailable", zap.String("file", s.cfg.Music), zap.Error(err))
	}
}

func (s *sound) play(cue audio.Cue) {
	err := s.audio.PlayCue(cue)
	switch {
	case err == nil:
	case errors.Is(err, audio.ErrUnknownCue), errors.Is(err, audio.ErrNotInitialized):
		s.log.Debug("cue skipped", zap.String("cue", string(cue)), zap.Error(err))
	default:
		s.log.Warn("cue failed", zap.String("cue", string(cue)), zap.Error(err))
	}
}

func (s *sound) toggleMute() {
	s.audio.SetMuted(!s.audio.Muted())
	s.log.Info("audio muted", zap.Bool("muted", s.audio.Muted()))
}

// Hit implements states.Events.
func (s *sound) Hit(collisions int) {
	s.log.Debug("hit", zap.Int("collisions", collisions))
	s.play(audio.CueHit)
}

// GameOver implements states.Events.
func (s *sound) GameOver() {
	s.audio.StopMusic()
	s.play(audio.CueGameOver)
}

// Grabbed implements states.Events.
func (s *sound) Grabbed() {}

func (s *sound) close() {
	s.audio.Close()
}
