package config

import "fmt"

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate checks the configuration for unusable values. Errors make the
// config unusable; warnings flag settings that will render but probably are
// not what the author intended.
func (c Config) Validate() []ValidationResult {
	var results []ValidationResult

	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("video geometry %dx%d is not renderable", c.Video.Width, c.Video.Height),
		})
	}
	if c.Video.Width%2 != 0 || c.Video.Height%2 != 0 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("video geometry %dx%d has odd dimensions; most encoders require even sizes", c.Video.Width, c.Video.Height),
		})
	}
	if c.Video.FPS <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("fps %d is not renderable", c.Video.FPS),
		})
	}
	if c.Video.CRF < 0 || c.Video.CRF > 51 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("crf %d outside the 0-51 range", c.Video.CRF),
		})
	}
	if c.Audio.Channels < 1 || c.Audio.Channels > 8 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("audio channel count %d is not renderable", c.Audio.Channels),
		})
	}
	if c.Loudnorm.Enabled {
		if c.Loudnorm.I > -5 || c.Loudnorm.I < -70 {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("loudnorm target %g outside the -70..-5 LUFS range", c.Loudnorm.I),
			})
		}
	}
	if c.Expressions.DuckingMaxSamples > 50 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("ducking_max_samples %d exceeds 50; the mixer caps it there", c.Expressions.DuckingMaxSamples),
		})
	}
	if c.Render.Concurrency < 1 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("render concurrency %d must be at least 1", c.Render.Concurrency),
		})
	}
	return results
}

// HasErrors reports whether any finding is an error.
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Level == "error" {
			return true
		}
	}
	return false
}
