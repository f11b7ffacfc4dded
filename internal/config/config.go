package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mahimpat/creatorcrafter/internal/audiomix"
	"github.com/mahimpat/creatorcrafter/internal/graph"
	"github.com/mahimpat/creatorcrafter/internal/plan"
)

// Config captures the encode, mixing, and engine settings for a workspace.
type Config struct {
	Version     int               `yaml:"version"`
	Video       VideoConfig       `yaml:"video"`
	Audio       AudioConfig       `yaml:"audio"`
	Loudnorm    LoudnormConfig    `yaml:"loudnorm"`
	Expressions ExpressionsConfig `yaml:"expressions"`
	Render      RenderConfig      `yaml:"render"`
}

// VideoConfig contains the target geometry and video encode parameters.
type VideoConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	FPS         int    `yaml:"fps"`
	Codec       string `yaml:"codec"`
	Preset      string `yaml:"preset"`
	CRF         int    `yaml:"crf"`
	PixelFormat string `yaml:"pix_fmt"`
}

// AudioConfig describes audio encoding parameters.
type AudioConfig struct {
	Codec       string `yaml:"codec"`
	BitrateKbps int    `yaml:"bitrate_kbps"`
	SampleRate  int    `yaml:"sample_rate"`
	Channels    int    `yaml:"channels"`
}

// LoudnormConfig controls the optional loudness normalization stage.
type LoudnormConfig struct {
	Enabled bool    `yaml:"enabled"`
	I       float64 `yaml:"i"`
	TP      float64 `yaml:"tp"`
	LRA     float64 `yaml:"lra"`
}

// ExpressionsConfig bounds generated filter expressions.
type ExpressionsConfig struct {
	Budget            int `yaml:"budget"`
	DuckingMaxSamples int `yaml:"ducking_max_samples"`
}

// RenderConfig locates the engine binaries and bounds render execution.
type RenderConfig struct {
	FFmpeg         string `yaml:"ffmpeg"`
	FFprobe        string `yaml:"ffprobe"`
	TimeoutSeconds int    `yaml:"timeout_s"`
	Concurrency    int    `yaml:"concurrency"`
	LogDir         string `yaml:"log_dir"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Video: VideoConfig{
			Width:       1920,
			Height:      1080,
			FPS:         30,
			Codec:       "libx264",
			Preset:      "medium",
			CRF:         23,
			PixelFormat: "yuv420p",
		},
		Audio: AudioConfig{
			Codec:       "aac",
			BitrateKbps: 192,
			SampleRate:  48000,
			Channels:    2,
		},
		Loudnorm: LoudnormConfig{
			Enabled: false,
			I:       -16,
			TP:      -1.5,
			LRA:     11,
		},
		Expressions: ExpressionsConfig{
			Budget:            audiomix.DefaultDuckingLimits.Budget,
			DuckingMaxSamples: audiomix.DefaultDuckingLimits.MaxSamples,
		},
		Render: RenderConfig{
			FFmpeg:         "ffmpeg",
			FFprobe:        "ffprobe",
			TimeoutSeconds: 1800,
			Concurrency:    1,
			LogDir:         "logs",
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise
// returns the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures nested fields fall back to sensible defaults when
// the YAML omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Video.Width == 0 {
		c.Video.Width = defaults.Video.Width
	}
	if c.Video.Height == 0 {
		c.Video.Height = defaults.Video.Height
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = defaults.Video.FPS
	}
	if c.Video.Codec == "" {
		c.Video.Codec = defaults.Video.Codec
	}
	if c.Video.Preset == "" {
		c.Video.Preset = defaults.Video.Preset
	}
	if c.Video.CRF == 0 {
		c.Video.CRF = defaults.Video.CRF
	}
	if c.Video.PixelFormat == "" {
		c.Video.PixelFormat = defaults.Video.PixelFormat
	}
	if c.Audio.Codec == "" {
		c.Audio.Codec = defaults.Audio.Codec
	}
	if c.Audio.BitrateKbps == 0 {
		c.Audio.BitrateKbps = defaults.Audio.BitrateKbps
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = defaults.Audio.SampleRate
	}
	if c.Audio.Channels == 0 {
		c.Audio.Channels = defaults.Audio.Channels
	}
	if c.Loudnorm.I == 0 {
		c.Loudnorm.I = defaults.Loudnorm.I
	}
	if c.Loudnorm.TP == 0 {
		c.Loudnorm.TP = defaults.Loudnorm.TP
	}
	if c.Loudnorm.LRA == 0 {
		c.Loudnorm.LRA = defaults.Loudnorm.LRA
	}
	if c.Expressions.Budget == 0 {
		c.Expressions.Budget = defaults.Expressions.Budget
	}
	if c.Expressions.DuckingMaxSamples == 0 {
		c.Expressions.DuckingMaxSamples = defaults.Expressions.DuckingMaxSamples
	}
	if c.Render.FFmpeg == "" {
		c.Render.FFmpeg = defaults.Render.FFmpeg
	}
	if c.Render.FFprobe == "" {
		c.Render.FFprobe = defaults.Render.FFprobe
	}
	if c.Render.TimeoutSeconds == 0 {
		c.Render.TimeoutSeconds = defaults.Render.TimeoutSeconds
	}
	if c.Render.Concurrency == 0 {
		c.Render.Concurrency = defaults.Render.Concurrency
	}
	if c.Render.LogDir == "" {
		c.Render.LogDir = defaults.Render.LogDir
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

// EncodeParams converts the encode sections into build parameters.
func (c Config) EncodeParams() graph.EncodeParams {
	return graph.EncodeParams{
		VideoCodec:   c.Video.Codec,
		Preset:       c.Video.Preset,
		CRF:          c.Video.CRF,
		PixelFormat:  c.Video.PixelFormat,
		FPS:          c.Video.FPS,
		Width:        c.Video.Width,
		Height:       c.Video.Height,
		AudioCodec:   c.Audio.Codec,
		AudioBitrate: c.Audio.BitrateKbps,
		SampleRate:   c.Audio.SampleRate,
		Channels:     c.Audio.Channels,
		FastStart:    true,
	}
}

// PlanOptions assembles the builder options implied by the config.
func (c Config) PlanOptions() plan.Options {
	opts := plan.Options{
		Width:  c.Video.Width,
		Height: c.Video.Height,
		FPS:    c.Video.FPS,
		Encode: c.EncodeParams(),
		Ducking: audiomix.DuckingLimits{
			Budget:     c.Expressions.Budget,
			MaxSamples: c.Expressions.DuckingMaxSamples,
		},
	}
	if c.Loudnorm.Enabled {
		opts.Loudnorm = &plan.LoudnormParams{
			I:   c.Loudnorm.I,
			TP:  c.Loudnorm.TP,
			LRA: c.Loudnorm.LRA,
		}
	}
	return opts
}

// RenderTimeout returns the configured engine timeout.
func (c Config) RenderTimeout() time.Duration {
	return time.Duration(c.Render.TimeoutSeconds) * time.Second
}
