package sekki

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/thinktide/seasons/internal/jsondoc"
)

// Sekki is the typed view of one entry, used for display. Missing or
// non-string text fields are left empty.
type Sekki struct {
	ID          string `json:"id" yaml:"id"`
	Kanji       string `json:"kanji" yaml:"kanji"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Notes       string `json:"notes" yaml:"notes"`
	Description string `json:"description" yaml:"description"`
	StartDate   string `json:"startDate" yaml:"startDate"`
}

// Size selects how much of a sekki is rendered by Text.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

var AllSizes = []Size{SizeSmall, SizeMedium, SizeLarge}

// Load reads the sekki list of the document at path without modifying it.
func Load(path string) ([]Sekki, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(KindNotFound, path, err)
	}
	doc, err := jsondoc.Decode(data)
	if err != nil {
		return nil, newError(KindParse, path, err)
	}
	list, err := entries(path, doc)
	if err != nil {
		return nil, err
	}

	out := make([]Sekki, 0, len(list))
	for i, item := range list {
		obj, ok := item.(*jsondoc.Object)
		if !ok {
			return nil, schemaErrorf(path, "%s[%d] is %s, want object", ListKey, i, typeName(item))
		}
		out = append(out, Sekki{
			ID:          text(obj, "id"),
			Kanji:       text(obj, "kanji"),
			Title:       text(obj, "title"),
			Notes:       text(obj, "notes"),
			Description: text(obj, "description"),
			StartDate:   text(obj, DateKey),
		})
	}
	return out, nil
}

func text(obj *jsondoc.Object, key string) string {
	v, _ := obj.Get(key)
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return ""
}

// StartIn resolves the start date of s in the given year. A "MM-DD" date
// recurs every year; a full "YYYY-MM-DD" date is absolute.
func (s Sekki) StartIn(year int, loc *time.Location) (time.Time, error) {
	if len(s.StartDate) == len("01-02") {
		return time.ParseInLocation("2006-01-02", fmt.Sprintf("%04d-%s", year, s.StartDate), loc)
	}
	return time.ParseInLocation("2006-01-02", s.StartDate, loc)
}

// Current returns the sekki in effect on day: the last entry starting on or
// before it, stopping early at one that starts exactly on it. Entries with an
// unparseable start date are skipped. When nothing has started yet the last
// entry is returned, carrying over from the previous year. The list is
// expected to be sorted by start date.
func Current(list []Sekki, day time.Time) (Sekki, bool) {
	i := CurrentIndex(list, day)
	if i < 0 {
		return Sekki{}, false
	}
	return list[i], true
}

// CurrentIndex is Current returning the entry's position, or -1 for an empty
// list.
func CurrentIndex(list []Sekki, day time.Time) int {
	if len(list) == 0 {
		return -1
	}

	today := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	current := -1
	for i := range list {
		start, err := list[i].StartIn(today.Year(), today.Location())
		if err != nil {
			continue
		}
		if !start.After(today) {
			current = i
			if start.Equal(today) {
				break
			}
		}
	}
	if current < 0 {
		return len(list) - 1
	}
	return current
}

// Text renders s as the widget text block for size. The large block also
// carries the description shown on the app's season card.
func (s Sekki) Text(size Size) string {
	switch size {
	case SizeMedium:
		return s.ID + "\n" + s.Notes
	case SizeLarge:
		out := s.Kanji + "\n" + s.ID + "\n" + s.Notes
		if s.Description != "" {
			out += "\n\n" + s.Description
		}
		return out
	}
	return s.ID
}
