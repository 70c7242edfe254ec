package gamedata

import (
	"encoding/json"
	"fmt"
)

// validator is implemented by data files that check their own contents
// after decoding.
type validator interface {
	Validate() error
}

// Load reads, unmarshals and validates a JSON file from the embedded
// filesystem.
func Load[T any](filename string) (T, error) {
	var zero T
	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return zero, fmt.Errorf("failed to read embedded file %s: %w", filename, err)
	}
	return decode[T](filename, content)
}

// decode unmarshals content and runs its Validate method when it has one.
func decode[T any](filename string, content []byte) (T, error) {
	var result T
	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON from %s: %w", filename, err)
	}
	if v, ok := any(&result).(validator); ok {
		if err := v.Validate(); err != nil {
			return result, fmt.Errorf("invalid data in %s: %w", filename, err)
		}
	}
	return result, nil
}

// MustLoad reads and unmarshals a JSON file, panicking on error.
// Use this for data the generator cannot run without.
func MustLoad[T any](filename string) T {
	result, err := Load[T](filename)
	if err != nil {
		panic(err)
	}
	return result
}
