// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audrev/audio"
)

// AppName names the default storage directory.
const AppName = "audrev"

// Config is the whole application configuration.
type Config struct {
	Audio    AudioConfig    `yaml:"audio"`
	Storage  StorageConfig  `yaml:"storage"`
	Capture  CaptureConfig  `yaml:"capture"`
	Playback PlaybackConfig `yaml:"playback"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// AudioConfig is the fixed take format plus the device buffer size.
type AudioConfig struct {
	SampleRate      int `yaml:"sample_rate"`
	Channels        int `yaml:"channels"`
	BitsPerSample   int `yaml:"bits_per_sample"`
	FramesPerBuffer int `yaml:"frames_per_buffer"`
}

// StorageConfig locates the scratch PCM file and the WAV take.
type StorageConfig struct {
	Dir     string `yaml:"dir"`
	PCMFile string `yaml:"pcm_file"`
	WAVFile string `yaml:"wav_file"`
}

// CaptureConfig tunes the capture loop.
type CaptureConfig struct {
	// MaxConsecutiveErrors of 0 never aborts.
	MaxConsecutiveErrors int `yaml:"max_consecutive_errors"`
}

// PlaybackConfig limits concurrent playbacks.
type PlaybackConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MetricsConfig holds the optional Prometheus listen address; empty disables it.
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// Default returns a valid configuration for mono 16-bit 44.1 kHz takes kept
// in the user cache directory.
func Default() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate:      int(audio.DefaultFormat.SampleRate),
			Channels:        int(audio.DefaultFormat.Channels),
			BitsPerSample:   int(audio.DefaultFormat.BitsPerSample),
			FramesPerBuffer: 1024,
		},
		Storage: StorageConfig{
			Dir:     defaultDir(),
			PCMFile: "recorded.pcm",
			WAVFile: "recorded.wav",
		},
		Capture:  CaptureConfig{MaxConsecutiveErrors: 32},
		Playback: PlaybackConfig{MaxConcurrent: 1},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

func defaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, AppName)
}

// Load reads path over the defaults, so a file only needs the keys it changes.
// An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}
	if err := c.Capture.Validate(); err != nil {
		return fmt.Errorf("capture config: %w", err)
	}
	if err := c.Playback.Validate(); err != nil {
		return fmt.Errorf("playback config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

func (a *AudioConfig) Validate() error {
	if err := a.Format().Validate(); err != nil {
		return err
	}
	if a.SampleRate < 8000 || a.SampleRate > 192000 {
		return fmt.Errorf("sample_rate must be between 8000 and 192000 Hz, got %d", a.SampleRate)
	}
	if a.FramesPerBuffer < 64 || a.FramesPerBuffer > 16384 {
		return fmt.Errorf("frames_per_buffer must be between 64 and 16384, got %d", a.FramesPerBuffer)
	}
	return nil
}

// Format converts the section to an audio.Format.
func (a *AudioConfig) Format() audio.Format {
	return audio.Format{
		SampleRate:    uint32(max(a.SampleRate, 0)),
		Channels:      uint8(max(min(a.Channels, 255), 0)),
		BitsPerSample: uint8(max(min(a.BitsPerSample, 255), 0)),
	}
}

// ChunkBytes is the capture read size for one device buffer.
func (a *AudioConfig) ChunkBytes() int {
	f := a.Format()
	return a.FramesPerBuffer * int(f.BlockAlign())
}

func (s *StorageConfig) Validate() error {
	if s.Dir == "" {
		return fmt.Errorf("dir cannot be empty")
	}
	for key, name := range map[string]string{"pcm_file": s.PCMFile, "wav_file": s.WAVFile} {
		if name == "" || filepath.Base(name) != name {
			return fmt.Errorf("%s must be a plain file name, got '%s'", key, name)
		}
	}
	if s.PCMFile == s.WAVFile {
		return fmt.Errorf("pcm_file and wav_file must differ, both are '%s'", s.PCMFile)
	}
	return nil
}

// PCMPath is the scratch file path.
func (s *StorageConfig) PCMPath() string { return filepath.Join(s.Dir, s.PCMFile) }

// WAVPath is the take path.
func (s *StorageConfig) WAVPath() string { return filepath.Join(s.Dir, s.WAVFile) }

func (c *CaptureConfig) Validate() error {
	if c.MaxConsecutiveErrors < 0 {
		return fmt.Errorf("max_consecutive_errors cannot be negative, got %d", c.MaxConsecutiveErrors)
	}
	return nil
}

func (p *PlaybackConfig) Validate() error {
	if p.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be at least 1, got %d", p.MaxConcurrent)
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}
	// anything but stdout/stderr is a file path
	if l.Output == "" {
		return fmt.Errorf("output cannot be empty")
	}
	return nil
}
