package youtube

import (
	"errors"
	"regexp"
)

// ErrInvalidReference means the input matched none of the recognized
// YouTube URL shapes.
var ErrInvalidReference = errors.New("could not extract a video id from the given URL")

// Recognized URL shapes, checked in order. Each captures the 11-character
// video id. The final pattern accepts a bare id pasted without a URL.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?(?:[^#\s]*&)?v=([\w-]{11})`),
	regexp.MustCompile(`youtu\.be/([\w-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([\w-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([\w-]{11})`),
	regexp.MustCompile(`^([\w-]{11})$`),
}

// ResolveVideoID extracts the canonical 11-character video id from a
// user-supplied URL or bare token. Same input always yields same output;
// no network access.
func ResolveVideoID(raw string) (string, error) {
	if raw == "" {
		return "", ErrInvalidReference
	}
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(raw); m != nil {
			return m[1], nil
		}
	}
	return "", ErrInvalidReference
}
