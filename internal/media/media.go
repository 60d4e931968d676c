package media

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mediashelf/media-tidy/internal/core"
)

// Filename detection & parsing utilities for the catalog scanner.
//
// Parsing is kept deliberately tolerant: community naming conventions vary
// wildly, so we accept several season/episode and year forms and derive
// structured metadata to prefill new catalog entries. Anything we cannot
// parse is simply left empty for the editor to fill in.
var (
	// videoRe matches video file extensions used to include media files.
	videoRe = regexp.MustCompile(`(?i)\.(mp4|mkv|avi|mov|wmv|flv|webm|mpeg|mpg|m4v|3gp|vob|ts|mts|m2ts|rmvb|divx)$`)

	// subtitleRe matches subtitle file extensions (case‑insensitive).
	subtitleRe = regexp.MustCompile(`(?i)\.(srt|sub|idx|ass|ssa|smi|vtt|sbv|sami|usf|stl|dks|pjs|jss|psb|rt|scc|cap|sup|dfxp|ttml)$`)

	// seasonEpisodeRe matches combined season/episode forms: S01E02, 1x02,
	// s1e2, S01_E01. Underscores are word characters, so \b anchors would
	// miss underscore-separated names; the pattern is left unanchored.
	seasonEpisodeRe = regexp.MustCompile(`(?i)[sx]?(\d{1,2})[. _\-]?[ex](\d{1,3})`)

	// yearRe extracts a plausible release year.
	yearRe = regexp.MustCompile(`(?:^|[^0-9])((?:19|20)\d{2})(?:[^0-9]|$)`)

	// encodingTagsRe removes codec/resolution/source tags to isolate the title.
	encodingTagsRe = regexp.MustCompile(`(?i)\b(?:HD|HDR|DV|x265|x264|H\.?264|H\.?265|HEVC|AVC|AAC|AC3|DD|DTS|FLAC|MP3|WEB-?DL|BluRay|BDRip|DVDRip|HDTV|720p|1080p|2160p|4K|UHD|SDR|10bit|8bit|PROPER|REPACK|iNTERNAL|LiMiTED|UNRATED|EXTENDED|COMPLETE|MULTI|DUAL|DUBBED|SUBBED|SUB|RETAIL|WS|FS|NTSC|PAL|UNCUT|UNCENSORED)\b`)

	// separatorRe collapses dot/underscore/dash/space separator runs.
	separatorRe = regexp.MustCompile(`[\s._\-]+`)
)

// IsVideo reports whether the file name has a recognized video extension.
func IsVideo(name string) bool {
	return videoRe.MatchString(name)
}

// IsSubtitle reports whether the file name has a recognized subtitle extension.
func IsSubtitle(name string) bool {
	return subtitleRe.MatchString(name)
}

// ParsedName holds the metadata recovered from a raw file name. Season and
// Episode are decimal strings without padding; absent parts are empty.
type ParsedName struct {
	DisplayName string
	Season      string
	Episode     string
	Year        string
}

// ParseName extracts display name, season/episode numbers and a release year
// from a file name. The display name is everything before the first
// season/episode or year token, with encoding tags removed and separator
// runs collapsed to single spaces.
func ParseName(name string) ParsedName {
	stem, _ := core.SplitExtension(name)

	var p ParsedName
	cut := len(stem)

	if m := seasonEpisodeRe.FindStringSubmatchIndex(stem); m != nil {
		if season, err := strconv.Atoi(stem[m[2]:m[3]]); err == nil {
			p.Season = strconv.Itoa(season)
		}
		if episode, err := strconv.Atoi(stem[m[4]:m[5]]); err == nil {
			p.Episode = strconv.Itoa(episode)
		}
		cut = m[0]
	}
	if m := yearRe.FindStringSubmatchIndex(stem); m != nil {
		p.Year = stem[m[2]:m[3]]
		// m[0] may include the leading separator; cut at the year itself.
		if m[2] < cut {
			cut = m[2]
		}
	}

	title := encodingTagsRe.ReplaceAllString(stem[:cut], " ")
	title = separatorRe.ReplaceAllString(title, " ")
	p.DisplayName = strings.TrimSpace(title)
	return p
}
