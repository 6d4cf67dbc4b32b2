// Package render turns computed layouts into shareable artifacts.
//
// # Overview
//
// Two renderers operate on a [layout.Result]:
//
//   - [RenderPNG] rasterizes the placed cards with fogleman/gg, optionally
//     coloring cards by a numeric property through the encode package.
//   - [ToDOT] exports the placement as a Graphviz DOT graph, which
//     [RenderDOTSVG] can rasterize to SVG with goccy/go-graphviz.
//
// The DOT export is most useful for the relational layouts (force-network,
// quark-tree), where Graphviz edges carry information the flat card raster
// cannot. For everything else the PNG renderer is the primary output.
//
// Renderers are pure functions of the layout result so their outputs are
// cacheable by content hash.
package render
