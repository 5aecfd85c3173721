package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/celldraw/pkg/arrow"
	"github.com/matzehuels/celldraw/pkg/colour"
	"github.com/matzehuels/celldraw/pkg/errors"
)

// Version is the only wire format version understood. Zero is read as
// Version.
const Version = 1

// MaxLevel bounds Style.Level.
const MaxLevel = 5

// MaxCoordinate bounds the absolute value of every length in a diagram:
// positions, curvature, shift, radius and shortening.
const MaxCoordinate = 1e6

// Spec is a decoded diagram file.
type Spec struct {
	Version int         `json:"version"`
	Nodes   []NodeSpec  `json:"nodes"`
	Arrows  []ArrowSpec `json:"arrows"`
}

// NodeSpec is a node centred on (Left, Top).
type NodeSpec struct {
	Name  string  `json:"name"`
	Left  float64 `json:"left"`
	Top   float64 `json:"top"`
	Label string  `json:"label,omitempty"`
	Color string  `json:"color,omitempty"`
}

// ArrowSpec is an arrow between two nodes or arrows. Angle is in degrees.
type ArrowSpec struct {
	Name           string       `json:"name,omitempty"`
	From           string       `json:"from"`
	To             string       `json:"to"`
	Label          string       `json:"label,omitempty"`
	LabelColor     string       `json:"label_color,omitempty"`
	LabelAlignment string       `json:"label_alignment,omitempty"`
	LabelPosition  float64      `json:"label_position,omitempty"`
	Color          string       `json:"color,omitempty"`
	Curve          float64      `json:"curve,omitempty"`
	Shift          float64      `json:"shift,omitempty"`
	Radius         float64      `json:"radius,omitempty"`
	Angle          float64      `json:"angle,omitempty"`
	Shape          string       `json:"shape,omitempty"`
	Shorten        *ShortenSpec `json:"shorten,omitempty"`
	Style          *StyleSpec   `json:"style,omitempty"`
}

// ShortenSpec trims an arrow at either end, in pixels.
type ShortenSpec struct {
	Source float64 `json:"source,omitempty"`
	Target float64 `json:"target,omitempty"`
}

// StyleSpec is the "style" object of an arrow.
type StyleSpec struct {
	Level int       `json:"level,omitempty"`
	Mode  string    `json:"mode,omitempty"`
	Body  *BodySpec `json:"body,omitempty"`
	Head  *TipSpec  `json:"head,omitempty"`
	Tail  *TipSpec  `json:"tail,omitempty"`
}

// BodySpec names the body style.
type BodySpec struct {
	Name string `json:"name"`
}

// TipSpec names a head or tail style. Side applies to harpoons and hooks.
type TipSpec struct {
	Name string `json:"name"`
	Side string `json:"side,omitempty"`
}

// Decode reads and validates a diagram. Any failure is an
// ErrCodeInvalidInput error.
func Decode(r io.Reader) (*Spec, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var s Spec
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidInput, "empty diagram input")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse diagram")
	}
	if dec.More() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unexpected data after diagram")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// DecodeBytes is Decode for in-memory data.
func DecodeBytes(data []byte) (*Spec, error) {
	return Decode(bytes.NewReader(data))
}

// ArrowName returns the name other arrows refer to the i-th arrow by.
func (s *Spec) ArrowName(i int) string {
	if n := s.Arrows[i].Name; n != "" {
		return n
	}
	return fmt.Sprintf("_arrow_%d", i)
}

// Validate checks the schema rules: a known version, unique valid names,
// finite numbers, known style names and references that resolve to a node
// or arrow.
func (s *Spec) Validate() error {
	if s.Version != 0 && s.Version != Version {
		return errors.New(errors.ErrCodeInvalidInput, "unsupported diagram version %d", s.Version)
	}

	names := make(map[string]string, len(s.Nodes)+len(s.Arrows))
	for i, n := range s.Nodes {
		if err := errors.ValidateName("node", n.Name); err != nil {
			return err
		}
		if prev, ok := names[n.Name]; ok {
			return errors.New(errors.ErrCodeInvalidInput, "node %q already defined as %s", n.Name, prev)
		}
		names[n.Name] = "node"
		for _, f := range []numField{{"left", n.Left}, {"top", n.Top}} {
			if err := errors.ValidateMagnitude(fmt.Sprintf("nodes[%d].%s", i, f.name), f.v, MaxCoordinate); err != nil {
				return err
			}
		}
		if _, err := colour.Canonical(n.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "node %q", n.Name)
		}
	}

	for i := range s.Arrows {
		name := s.ArrowName(i)
		if err := errors.ValidateName("arrow", name); err != nil {
			return err
		}
		if prev, ok := names[name]; ok {
			return errors.New(errors.ErrCodeInvalidInput, "arrow %q already defined as %s", name, prev)
		}
		names[name] = "arrow"
	}

	for i := range s.Arrows {
		if err := s.validateArrow(i, names); err != nil {
			return err
		}
	}
	return nil
}

func (s *Spec) validateArrow(i int, names map[string]string) error {
	a := s.Arrows[i]
	name := s.ArrowName(i)

	for _, ref := range []struct{ field, value string }{{"from", a.From}, {"to", a.To}} {
		if ref.value == "" {
			return errors.New(errors.ErrCodeInvalidInput, "arrow %q: %s is required", name, ref.field)
		}
		if _, ok := names[ref.value]; !ok {
			return errors.New(errors.ErrCodeInvalidInput, "arrow %q: %s refers to unknown %q", name, ref.field, ref.value)
		}
	}

	lengths := []numField{{"curve", a.Curve}, {"shift", a.Shift}, {"radius", a.Radius}}
	if a.Shorten != nil {
		lengths = append(lengths, numField{"shorten.source", a.Shorten.Source}, numField{"shorten.target", a.Shorten.Target})
	}
	for _, n := range lengths {
		if err := errors.ValidateMagnitude(fmt.Sprintf("arrow %q: %s", name, n.name), n.v, MaxCoordinate); err != nil {
			return err
		}
	}
	for _, n := range []numField{{"angle", a.Angle}, {"label_position", a.LabelPosition}} {
		if err := errors.ValidateFinite(fmt.Sprintf("arrow %q: %s", name, n.name), n.v); err != nil {
			return err
		}
	}

	if a.Style != nil && a.Style.Level != 0 {
		if err := errors.ValidateRange(fmt.Sprintf("arrow %q: style.level", name), a.Style.Level, 1, MaxLevel); err != nil {
			return err
		}
	}
	for _, c := range []string{a.Color, a.LabelColor} {
		if _, err := colour.Canonical(c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "arrow %q", name)
		}
	}
	if _, err := arrow.ParseLabelAlignment(a.LabelAlignment); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "arrow %q", name)
	}
	if _, err := styleOf(a); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "arrow %q", name)
	}
	return nil
}

type numField struct {
	name string
	v    float64
}

// parseSide reads a harpoon or hook side. The empty string is "top".
func parseSide(s string) (bottom bool, err error) {
	switch strings.ToLower(s) {
	case "", "top":
		return false, nil
	case "bottom":
		return true, nil
	}
	return false, fmt.Errorf("unknown side %q", s)
}
