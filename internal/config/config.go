package config

import (
	"errors"
	"sort"

	"github.com/thinktide/seasons/internal/db"
)

const (
	KeyFilePath       = "file.path"
	KeyOutputFormat   = "output.format"
	KeyHistoryEnabled = "history.enabled"
)

var defaults = map[string]string{
	KeyFilePath:       "content.json",
	KeyOutputFormat:   "table",
	KeyHistoryEnabled: "true",
}

// Get returns the stored value for key, or its default. Without an open
// database the default is returned.
func Get(key string) (string, error) {
	value, err := db.GetConfig(key)
	if errors.Is(err, db.ErrNotOpen) {
		return defaults[key], nil
	}
	if err != nil {
		return "", err
	}
	if value == "" {
		if def, ok := defaults[key]; ok {
			return def, nil
		}
	}
	return value, nil
}

func Set(key, value string) error {
	return db.SetConfig(key, value)
}

func List() (map[string]string, error) {
	stored, err := db.ListConfig()
	if err != nil && !errors.Is(err, db.ErrNotOpen) {
		return nil, err
	}

	// Merge with defaults
	result := make(map[string]string)
	for k, v := range defaults {
		result[k] = v
	}
	for k, v := range stored {
		result[k] = v
	}
	return result, nil
}

func GetBool(key string) (bool, error) {
	value, err := Get(key)
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

func SetBool(key string, value bool) error {
	v := "false"
	if value {
		v = "true"
	}
	return Set(key, v)
}

// ValidKeys returns the known keys in sorted order.
func ValidKeys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func IsValidKey(key string) bool {
	_, ok := defaults[key]
	return ok
}
