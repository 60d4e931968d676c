package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Filename normalization helpers shared by the auto-formatter and the
// derivative classifier. All functions are pure; Sanitize is idempotent.

// invalidNameChars are replaced with a hyphen. Quotes are included so names
// pasted from titles survive as valid file names on every filesystem we care
// about.
const invalidNameChars = "<>|?*:/\\\"'‘’“”"

var (
	hyphenRunRe = regexp.MustCompile(`-{2,}`)
	digitsRe    = regexp.MustCompile(`^\d+$`)
	episodeRe   = regexp.MustCompile(`(?i)^e\d+$`)
	wsRe        = regexp.MustCompile(`\s+`)
)

// Sanitize strips a file name down to filesystem-safe characters. Quote
// characters and `< > | ? * : / \` become hyphens, runs of hyphens collapse
// to one, leading and trailing hyphens are trimmed, and control characters
// are dropped. The extension (everything from the last dot) passes through
// unchanged.
func Sanitize(name string) string {
	stem, ext := SplitExtension(name)

	var b strings.Builder
	b.Grow(len(stem))
	for _, r := range stem {
		switch {
		case r < 32 || r == 127:
			// control characters vanish entirely
		case strings.ContainsRune(invalidNameChars, r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}

	out := hyphenRunRe.ReplaceAllString(b.String(), "-")
	out = strings.Trim(out, "-")
	return out + ext
}

// FormatSeason renders a season number as a canonical two digit token.
func FormatSeason(n int) string {
	return fmt.Sprintf("S%02d", n)
}

// FormatEpisode canonicalizes an episode token. Pure digits are zero-padded
// and prefixed with E; an existing E-token is uppercased; anything else
// passes through with internal whitespace collapsed to underscores.
func FormatEpisode(token string) string {
	switch {
	case digitsRe.MatchString(token):
		n, _ := strconv.Atoi(token)
		return fmt.Sprintf("E%02d", n)
	case episodeRe.MatchString(token):
		return strings.ToUpper(token)
	default:
		return wsRe.ReplaceAllString(token, "_")
	}
}

// SplitExtension splits name into a stem and the extension from the last dot
// inclusive. Names without a dot return an empty extension.
func SplitExtension(name string) (stem, ext string) {
	if i := strings.LastIndex(name, "."); i != -1 {
		return name[:i], name[i:]
	}
	return name, ""
}

// ResolutionLabel buckets probed dimensions into the familiar marketing
// labels. Either dimension missing yields an empty label.
func ResolutionLabel(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	switch {
	case height >= 2160 || width >= 3840:
		return "4K"
	case height >= 1080:
		return "1080p"
	case height >= 720:
		return "720p"
	default:
		return fmt.Sprintf("%dp", height)
	}
}

// Underscore converts spaces to underscores after sanitizing, producing the
// token form used inside composed file names.
func Underscore(s string) string {
	return wsRe.ReplaceAllString(strings.TrimSpace(Sanitize(s)), "_")
}
