package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/celldraw/pkg/dag"
	"github.com/matzehuels/celldraw/pkg/dag/transform"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the resolution round and metadata in vertex labels.
	// When false, only the ID is shown.
	Detailed bool
}

// ToDOT converts an attachment graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Rows are (re)assigned with [transform.AssignLayers] so that vertices
// resolving in the same round line up.
func ToDOT(g *dag.DAG, opts Options) string {
	transform.AssignLayers(g)
	onCycle := make(map[string]bool)
	for _, id := range transform.FindCycle(g) {
		onCycle[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.Detailed {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", graphLabel(g))
	}
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := fmtLabel(g, *n, opts.Detailed)
		attrs := fmtAttrs(*n, label, onCycle[n.ID])
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	// Objects are fixed before any arrow resolves, so they always head the
	// layout. Row 0 may still hold arrows stuck on a cycle.
	buf.WriteString("\n")
	sources := g.Sources()
	isSource := make(map[string]bool, len(sources))
	for _, n := range sources {
		isSource[n.ID] = true
	}
	writeRank(&buf, "source", dag.NodeIDs(sources))
	for _, row := range g.RowIDs() {
		var ids []string
		for _, n := range g.NodesInRow(row) {
			if !isSource[n.ID] {
				ids = append(ids, n.ID)
			}
		}
		if len(ids) > 1 {
			writeRank(&buf, "same", ids)
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		var attrs []string
		if end, ok := e.Meta["end"].(string); ok && end == "target" {
			attrs = append(attrs, "style=dashed")
		}
		if from, ok := g.Node(e.From); ok && from.IsArrow() {
			attrs = append(attrs, "arrowhead=onormal")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeRank(buf *bytes.Buffer, rank string, ids []string) {
	if len(ids) == 0 {
		return
	}
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = strconv.Quote(id)
	}
	fmt.Fprintf(buf, "  { rank=%s; %s; }\n", rank, strings.Join(quoted, "; "))
}

// graphLabel names the spec format version and the number of rounds needed
// to resolve every arrow.
func graphLabel(g *dag.DAG) string {
	label := fmt.Sprintf("rounds: %d", g.MaxRow())
	if v, ok := g.Meta()["version"]; ok {
		label = fmt.Sprintf("format v%v, %s", v, label)
	}
	return label
}

func fmtLabel(g *dag.DAG, n dag.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}

	parts := []string{fmt.Sprintf("round: %d", n.Row)}
	if parents := g.Parents(n.ID); len(parents) > 0 {
		parts = append(parts, "attaches: "+strings.Join(parents, ", "))
	}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		if v := n.Meta[k]; v != "" && v != nil {
			parts = append(parts, fmt.Sprintf("%s: %v", k, v))
		}
	}

	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n dag.Node, label string, onCycle bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsArrow() {
		attrs = append(attrs, "shape=ellipse", "style=filled", "fillcolor=\"#f2f2f2\"")
	}
	if onCycle {
		attrs = append(attrs, "color=red", "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one that scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
