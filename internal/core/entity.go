package core

// Field identifies one editable metadata field of an Entity.
type Field string

const (
	FieldName        Field = "name"
	FieldDisplayName Field = "display_name"
	FieldChannel     Field = "channel"
	FieldSeries      Field = "series"
	FieldSeason      Field = "season"
	FieldEpisode     Field = "episode"
	FieldYear        Field = "year"
)

// EditableFields lists every field an EditSession tracks, in display order.
var EditableFields = []Field{
	FieldName,
	FieldDisplayName,
	FieldChannel,
	FieldSeries,
	FieldSeason,
	FieldEpisode,
	FieldYear,
}

// numericFields are coerced to integer-or-null when a change-set is compiled.
var numericFields = map[Field]bool{
	FieldSeason: true,
	FieldYear:   true,
}

// Entity is one catalogued media record. Name carries the file extension;
// Season, Episode and Year are kept as raw text while being edited and only
// coerced to integers at the change-set boundary. Width and Height come from
// probing the file and are not user-editable.
type Entity struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Channel     string `json:"channel,omitempty"`
	Series      string `json:"series,omitempty"`
	Season      string `json:"season,omitempty"`
	Episode     string `json:"episode,omitempty"`
	Year        string `json:"year,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// FieldValue returns the current value of f on e.
func (e *Entity) FieldValue(f Field) string {
	switch f {
	case FieldName:
		return e.Name
	case FieldDisplayName:
		return e.DisplayName
	case FieldChannel:
		return e.Channel
	case FieldSeries:
		return e.Series
	case FieldSeason:
		return e.Season
	case FieldEpisode:
		return e.Episode
	case FieldYear:
		return e.Year
	}
	return ""
}

// SetFieldValue assigns v to field f on e. Unknown fields are ignored.
func (e *Entity) SetFieldValue(f Field, v string) {
	switch f {
	case FieldName:
		e.Name = v
	case FieldDisplayName:
		e.DisplayName = v
	case FieldChannel:
		e.Channel = v
	case FieldSeries:
		e.Series = v
	case FieldSeason:
		e.Season = v
	case FieldEpisode:
		e.Episode = v
	case FieldYear:
		e.Year = v
	}
}

// snapshot captures every editable field value of e.
func (e *Entity) snapshot() map[Field]string {
	s := make(map[Field]string, len(EditableFields))
	for _, f := range EditableFields {
		s[f] = e.FieldValue(f)
	}
	return s
}
