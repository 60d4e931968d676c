package core

import (
	"errors"
	"strconv"
	"strings"
)

// AutoFormatter signals. Neither is a failure: ErrNoMetadata means there was
// nothing to compose a name from, ErrAlreadyFormatted means the entity is
// already named canonically and the caller can skip the write.
var (
	ErrNoMetadata       = errors.New("no metadata available to format a name from")
	ErrAlreadyFormatted = errors.New("file name already matches the formatted name")
)

// FormatName composes the canonical file name for e from its current field
// values: display name, season, episode, year, resolution label, channel,
// joined by underscores, with the extension carried over from the current
// file name. A season that does not parse as an integer is treated as
// absent.
//
// The returned name has not been applied; feeding it through
// EditSession.SetField keeps the rename tracked like any manual edit.
func FormatName(e *Entity) (string, error) {
	var parts []string

	if v := Underscore(e.DisplayName); v != "" {
		parts = append(parts, v)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(e.Season)); err == nil {
		parts = append(parts, FormatSeason(n))
	}
	if v := strings.TrimSpace(e.Episode); v != "" {
		parts = append(parts, FormatEpisode(v))
	}
	if v := strings.TrimSpace(e.Year); v != "" {
		parts = append(parts, v)
	}
	if v := ResolutionLabel(e.Width, e.Height); v != "" {
		parts = append(parts, v)
	}
	if v := Underscore(e.Channel); v != "" {
		parts = append(parts, v)
	}

	if len(parts) == 0 {
		return "", ErrNoMetadata
	}

	_, ext := SplitExtension(e.Name)
	name := strings.Join(parts, "_") + ext
	if name == e.Name {
		return name, ErrAlreadyFormatted
	}
	return name, nil
}
