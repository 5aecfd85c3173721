package diagram

import (
	"io"
	"maps"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/celldraw/pkg/arrow"
	"github.com/matzehuels/celldraw/pkg/colour"
	"github.com/matzehuels/celldraw/pkg/dag/transform"
	"github.com/matzehuels/celldraw/pkg/errors"
	"github.com/matzehuels/celldraw/pkg/fonts"
	"github.com/matzehuels/celldraw/pkg/geom"
)

const (
	// DefaultNodeRadius is the corner radius (and half the size) of a node.
	DefaultNodeRadius = 25.0
	// DefaultViewPadding is added around the content on every side.
	DefaultViewPadding = 40.0
	// EmptyViewBox is the viewport of a diagram with nothing in it.
	EmptyViewBox = "0 0 100 100"
)

// Measurer returns the size of a label, padding included.
type Measurer func(text string) (width, height float64)

// Option configures Resolve.
type Option func(*resolver)

func WithNodeRadius(r float64) Option     { return func(rs *resolver) { rs.nodeRadius = r } }
func WithViewPadding(p float64) Option    { return func(rs *resolver) { rs.padding = p } }
func WithLabelMeasurer(m Measurer) Option { return func(rs *resolver) { rs.measure = m } }
func WithLogger(l *log.Logger) Option     { return func(rs *resolver) { rs.logger = l } }

// ComputedNode is a node as drawn.
type ComputedNode struct {
	Name     string     `json:"name"`
	Position geom.Point `json:"position"`
	Radius   float64    `json:"radius"`
	Label    string     `json:"label,omitempty"`
	Colour   string     `json:"color"`
}

// ComputedDiagram is the result of [Resolve]. On failure Error is set and
// the diagram is empty.
type ComputedDiagram struct {
	Nodes   []ComputedNode        `json:"nodes"`
	Arrows  []arrow.ComputedArrow `json:"arrows"`
	Masks   []arrow.ComputedMask  `json:"masks"`
	ViewBox string                `json:"viewBox"`
	Error   *string               `json:"error"`

	err error
}

// Err returns the coded error behind Error, or nil.
func (d *ComputedDiagram) Err() error { return d.err }

// OK reports whether resolution succeeded.
func (d *ComputedDiagram) OK() bool { return d.err == nil }

// ArrowByID returns the computed arrow with the given name.
func (d *ComputedDiagram) ArrowByID(id string) (arrow.ComputedArrow, bool) {
	for _, a := range d.Arrows {
		if a.ID == id {
			return a, true
		}
	}
	return arrow.ComputedArrow{}, false
}

func empty() *ComputedDiagram {
	return &ComputedDiagram{
		Nodes:   []ComputedNode{},
		Arrows:  []arrow.ComputedArrow{},
		Masks:   []arrow.ComputedMask{},
		ViewBox: EmptyViewBox,
	}
}

// Failed returns an empty diagram reporting err.
func Failed(err error) *ComputedDiagram {
	d := empty()
	msg := errors.UserMessage(err)
	d.Error = &msg
	d.err = err
	return d
}

// CycleError reports arrows that attach to each other in a loop.
type CycleError struct {
	// Cycle is a closed walk, first element repeated at the end. It is empty
	// when only the round limit detected the problem.
	Cycle []string
	// Pending lists every arrow left unresolved, in declaration order.
	Pending []string
}

func (e *CycleError) Error() string {
	if len(e.Cycle) > 0 {
		return "dependency cycle detected: " + strings.Join(e.Cycle, " -> ")
	}
	return "dependency cycle detected among " + strings.Join(e.Pending, ", ")
}

type resolver struct {
	nodeRadius float64
	padding    float64
	measure    Measurer
	logger     *log.Logger
}

// record is one arrow in the resolution arena.
type record struct {
	name   string
	spec   ArrowSpec
	arrow  arrow.Arrow
	result *arrow.Result
}

// Resolve computes the geometry of every node and arrow in s. It never
// fails outright: errors are reported on the returned diagram.
func Resolve(s *Spec, opts ...Option) *ComputedDiagram {
	rs := &resolver{
		nodeRadius: DefaultNodeRadius,
		padding:    DefaultViewPadding,
		measure:    fonts.MeasureLabel,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(rs)
	}
	if rs.logger == nil {
		rs.logger = log.New(io.Discard)
	}
	if rs.measure == nil {
		rs.measure = fonts.MeasureLabel
	}
	if s == nil {
		s = &Spec{}
	}
	if err := s.Validate(); err != nil {
		return Failed(err)
	}
	d, err := rs.resolve(s)
	if err != nil {
		return Failed(err)
	}
	return d
}

// ResolveJSON decodes data and resolves it.
func ResolveJSON(data []byte, opts ...Option) *ComputedDiagram {
	s, err := DecodeBytes(data)
	if err != nil {
		return Failed(err)
	}
	return Resolve(s, opts...)
}

func (rs *resolver) resolve(s *Spec) (*ComputedDiagram, error) {
	out := empty()
	endpoints := make(map[string]arrow.Shape, len(s.Nodes)+len(s.Arrows))
	size := geom.Dims(2*rs.nodeRadius, 2*rs.nodeRadius)
	for _, n := range s.Nodes {
		p := geom.Pt(n.Left, n.Top)
		endpoints[n.Name] = arrow.RoundedRect(p, size, rs.nodeRadius)
		out.Nodes = append(out.Nodes, ComputedNode{
			Name:     n.Name,
			Position: p,
			Radius:   rs.nodeRadius,
			Label:    n.Label,
			Colour:   colour.Or(n.Color, colour.Default),
		})
	}

	arena, err := rs.arena(s)
	if err != nil {
		return nil, err
	}

	dropped := make(map[string]bool)
	pending := make([]int, len(arena))
	for i := range pending {
		pending[i] = i
	}

	// Arrows placed in a round become attachable in the next one.
	for round := 1; len(pending) > 0; round++ {
		if round > len(arena)+1 {
			return nil, rs.cycle(s, arena, pending)
		}
		var next []int
		placed := make(map[string]arrow.Shape)
		lost := make(map[string]bool)
		for _, i := range pending {
			r := &arena[i]
			if dropped[r.spec.From] || dropped[r.spec.To] {
				rs.logger.Debug("dropped arrow", "arrow", r.name, "reason", "attached to dropped arrow")
				lost[r.name] = true
				continue
			}
			src, okSrc := endpoints[r.spec.From]
			dst, okDst := endpoints[r.spec.To]
			if !okSrc || !okDst {
				next = append(next, i)
				continue
			}

			r.arrow.Source, r.arrow.Target = src, dst
			res, ok := r.arrow.Compute()
			if !ok {
				rs.logger.Debug("dropped arrow", "arrow", r.name, "reason", "no intersection")
				lost[r.name] = true
				continue
			}
			r.result = res
			placed[r.name] = pseudoEndpoint(r.arrow, res)
		}
		rs.logger.Debug("resolution round", "round", round, "placed", len(placed), "dropped", len(lost), "pending", len(next))
		if len(next) == len(pending) {
			return nil, rs.cycle(s, arena, next)
		}
		maps.Copy(endpoints, placed)
		maps.Copy(dropped, lost)
		pending = next
	}

	for _, r := range arena {
		if r.result == nil {
			continue
		}
		out.Arrows = append(out.Arrows, r.result.Arrow)
		out.Masks = append(out.Masks, r.result.Masks...)
	}
	out.ViewBox = rs.viewBox(out)
	return out, nil
}

// arena builds the arrow records in declaration order, labels measured.
func (rs *resolver) arena(s *Spec) ([]record, error) {
	arena := make([]record, len(s.Arrows))
	for i, a := range s.Arrows {
		st, err := styleOf(a)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "arrow %q", s.ArrowName(i))
		}
		arena[i] = record{
			name:  s.ArrowName(i),
			spec:  a,
			arrow: arrow.Arrow{ID: s.ArrowName(i), Style: st},
		}
		if a.Label == "" {
			continue
		}
		align, err := arrow.ParseLabelAlignment(a.LabelAlignment)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "arrow %q", s.ArrowName(i))
		}
		w, h := rs.measure(a.Label)
		arena[i].arrow.Label = &arrow.Label{
			Text:      a.Label,
			Colour:    colour.Or(a.LabelColor, colour.Default),
			Alignment: align,
			Position:  a.LabelPosition,
			Size:      geom.Dims(w, h),
		}
	}
	return arena, nil
}

// pseudoEndpoint is what later arrows attach to: the midpoint, or a box the
// size of the label around it.
func pseudoEndpoint(a arrow.Arrow, res *arrow.Result) arrow.Shape {
	mid := res.Arrow.Midpoint
	if a.Label == nil || a.Label.Size.IsZero() {
		return arrow.Endpoint(mid)
	}
	return arrow.RoundedRect(mid, a.Label.Size, 0)
}

func (rs *resolver) cycle(s *Spec, arena []record, pending []int) error {
	names := make([]string, len(pending))
	for i, idx := range pending {
		names[i] = arena[idx].name
	}
	err := &CycleError{Cycle: transform.FindCycle(Dependencies(s)), Pending: names}
	rs.logger.Debug("resolution stalled", "pending", names)
	return errors.Wrap(errors.ErrCodeDependencyCycle, err, "cannot resolve %d arrow(s)", len(names))
}

// viewBox covers every node box and every arrow midpoint, padded.
func (rs *resolver) viewBox(d *ComputedDiagram) string {
	if len(d.Nodes) == 0 && len(d.Arrows) == 0 {
		return EmptyViewBox
	}
	var b geom.Bounds
	for _, n := range d.Nodes {
		b.Include(n.Position, n.Radius)
	}
	for _, a := range d.Arrows {
		b.Include(a.Midpoint, 0)
	}
	r := b.Rect(rs.padding)
	size := geom.RectSize(r)
	return geom.Nums(r.LLx, r.LLy, size.Width(), size.Height())
}
