package inference

import (
	"errors"
	"fmt"
	"strings"
)

// ErrModelUnavailable is returned by every call when the service holds no
// successfully loaded bundle. It is terminal for the process instance; only a
// restart with a loadable artifact clears it.
var ErrModelUnavailable = errors.New("model not loaded")

// MissingFeaturesError reports which required features the input lacks, along
// with the full required list, so the caller can fix the payload without
// guessing.
type MissingFeaturesError struct {
	Missing  []string
	Required []string
}

func (e *MissingFeaturesError) Error() string {
	return fmt.Sprintf("missing required features: %s", strings.Join(e.Missing, ", "))
}

// BadValueError reports a required feature whose value could not be
// interpreted as a number.
type BadValueError struct {
	Feature string
	Value   any
}

func (e *BadValueError) Error() string {
	return fmt.Sprintf("feature %s has non-numeric value %v", e.Feature, e.Value)
}
