package classify

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode selects a classifier together with the label set it was trained on.
type Mode int

const (
	Basic Mode = iota
	Advanced
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case Basic:
		return "basic"
	case Advanced:
		return "advanced"
	default:
		return "unknown"
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Basic {
		return Advanced
	}
	return Basic
}

// ParseMode parses "basic" or "advanced" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic":
		return Basic, nil
	case "advanced":
		return Advanced, nil
	default:
		return Basic, errors.Wrapf(ErrUnknownMode, "%q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// LabelSet is the ordered list of labels a classifier scores, index-aligned
// with its score vector.
type LabelSet []string

// ModelSpec describes one selectable classifier.
type ModelSpec struct {
	Mode       Mode
	Path       string
	Resolution int
	Labels     LabelSet
}

// Validate checks that the spec can be loaded and scored.
func (s ModelSpec) Validate() error {
	if s.Path == "" {
		return errors.Errorf("%s model: empty path", s.Mode)
	}
	if s.Resolution <= 0 {
		return errors.Errorf("%s model: invalid resolution %d", s.Mode, s.Resolution)
	}
	if len(s.Labels) == 0 {
		return errors.Errorf("%s model: empty label set", s.Mode)
	}
	return nil
}

// Catalog maps each mode to its model.
type Catalog map[Mode]ModelSpec

// DefaultResolution is the input edge length of the bundled models.
const DefaultResolution = 255

// DefaultModelServer is the websocket model server the default catalog
// points at.
const DefaultModelServer = "ws://localhost:8765"

var (
	// BasicLabels are the 10 classes of the basic model.
	BasicLabels = LabelSet{"apple", "campfire", "diamond", "donut", "face", "fish", "hand", "house", "pizza", "t-shirt"}

	// AdvancedLabels are the 21 classes of the advanced model.
	AdvancedLabels = LabelSet{"apple", "baseball", "bicycle", "campfire", "car", "cup", "diamond", "donut", "elephant", "face", "fish", "foot", "hand", "house", "key", "mountain", "pants", "pizza", "snowman", "t-shirt", "tree"}
)

// DefaultCatalog returns the basic and advanced models.
func DefaultCatalog() Catalog {
	return Catalog{
		Basic: {
			Mode:       Basic,
			Path:       DefaultModelServer + "/models/basic",
			Resolution: DefaultResolution,
			Labels:     BasicLabels,
		},
		Advanced: {
			Mode:       Advanced,
			Path:       DefaultModelServer + "/models/advanced",
			Resolution: DefaultResolution,
			Labels:     AdvancedLabels,
		},
	}
}
