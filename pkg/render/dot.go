package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/chemdeck/chemdeck/pkg/errors"
	"github.com/chemdeck/chemdeck/pkg/layout"
)

// ToDOT exports a layout result as a Graphviz DOT graph. Grouped layouts
// become subgraph clusters; force-network layouts additionally gain hub nodes
// with an edge from each dominant-force hub to its member particles.
func ToDOT(res layout.Result) string {
	var buf bytes.Buffer
	buf.WriteString("digraph chemdeck {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n\n")

	writeClusters(&buf, res)
	writeHubEdges(&buf, res)

	buf.WriteString("}\n")
	return buf.String()
}

// writeClusters emits one subgraph per group in first-seen order. Ungrouped
// cards are emitted as plain nodes.
func writeClusters(buf *bytes.Buffer, res layout.Result) {
	groups := make(map[string][]layout.Placed)
	var order []string
	for _, p := range res.Placed {
		if _, seen := groups[p.Group]; !seen {
			order = append(order, p.Group)
		}
		groups[p.Group] = append(groups[p.Group], p)
	}

	cluster := 0
	for _, group := range order {
		members := groups[group]
		if group == "" {
			for _, p := range members {
				fmt.Fprintf(buf, "  %q;\n", p.Entity.Name())
			}
			continue
		}

		fmt.Fprintf(buf, "  subgraph cluster_%d {\n", cluster)
		cluster++
		fmt.Fprintf(buf, "    label=%q;\n", group)
		if color := members[0].GroupColor; color != "" {
			fmt.Fprintf(buf, "    color=%q;\n", color)
		}
		for _, p := range members {
			fmt.Fprintf(buf, "    %q;\n", p.Entity.Name())
		}
		buf.WriteString("  }\n")
	}
}

// writeHubEdges adds a hub node per force cluster and connects members to it.
func writeHubEdges(buf *bytes.Buffer, res layout.Result) {
	seen := map[string]bool{}
	for _, p := range res.Placed {
		force, ok := p.Extra["cluster"].(string)
		if !ok || force == "" {
			continue
		}
		hub := "force:" + force
		if !seen[hub] {
			seen[hub] = true
			fmt.Fprintf(buf, "\n  %q [shape=ellipse, fillcolor=lightgrey, label=%q];\n", hub, force)
		}
		fmt.Fprintf(buf, "  %q -> %q;\n", hub, p.Entity.Name())
	}
}

// RenderDOTSVG rasterizes a DOT graph to SVG using Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the viewBox starts at the
// origin. Graphviz emits translated coordinates that confuse some viewers.
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
