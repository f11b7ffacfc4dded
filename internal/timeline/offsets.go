package timeline

// Offsets returns the start offset of each clip on the output timeline.
// Clip 0 starts at 0; each following clip starts where the previous clip
// ends minus the transition overlap. A zero-duration transition is plain
// concatenation.
func Offsets(clips []ClipSpec, transitions []TransitionSpec) ([]float64, error) {
	if err := Validate(clips, transitions); err != nil {
		return nil, err
	}

	offsets := make([]float64, len(clips))
	for i := 1; i < len(clips); i++ {
		offsets[i] = offsets[i-1] + clips[i-1].EffectiveDuration() - transitions[i-1].Duration
	}
	return offsets, nil
}

// TotalDuration returns the length of the composed output timeline.
func TotalDuration(clips []ClipSpec, transitions []TransitionSpec) (float64, error) {
	offsets, err := Offsets(clips, transitions)
	if err != nil {
		return 0, err
	}
	last := len(clips) - 1
	return offsets[last] + clips[last].EffectiveDuration(), nil
}

// Validate checks the structural invariants the offset arithmetic depends
// on. Any violation aborts the build before a single graph stage exists.
func Validate(clips []ClipSpec, transitions []TransitionSpec) error {
	if len(clips) == 0 {
		return NewInvalidTimeline("timeline has no clips")
	}
	if len(clips) > 1 && len(transitions) != len(clips)-1 {
		return NewInvalidTimeline("expected %d transitions for %d clips, got %d",
			len(clips)-1, len(clips), len(transitions))
	}

	for i, clip := range clips {
		if clip.StartTrim < 0 || clip.EndTrim < 0 {
			return NewInvalidTimeline("clip %d has a negative trim", i)
		}
		if clip.EffectiveDuration() <= 0 {
			return NewInvalidTimeline(
				"clip %d has non-positive effective duration (raw %.3fs, trims %.3fs + %.3fs)",
				i, clip.RawDuration, clip.StartTrim, clip.EndTrim)
		}
	}

	for i, tr := range transitions {
		if tr.Duration < 0 {
			return NewInvalidTimeline("transition %d has negative duration", i)
		}
		if i >= len(clips)-1 {
			break
		}
		if tr.Duration > 0 {
			if tr.Duration >= clips[i].EffectiveDuration() {
				return NewInvalidTimeline(
					"transition %d duration %.3fs consumes clip %d entirely (%.3fs)",
					i, tr.Duration, i, clips[i].EffectiveDuration())
			}
			if tr.Duration >= clips[i+1].EffectiveDuration() {
				return NewInvalidTimeline(
					"transition %d duration %.3fs consumes clip %d entirely (%.3fs)",
					i, tr.Duration, i+1, clips[i+1].EffectiveDuration())
			}
		}
	}

	return nil
}
