// Package pkg provides the core libraries for chemdeck card visualization.
//
// # Overview
//
// Chemdeck arranges chemistry and particle-physics records into visual card
// layouts. The pkg directory is organized by pipeline stage:
//
//  1. [entity], [dataset], [filter] - records, their sources, and selection
//  2. [layout], [geom], [viewport], [encode] - placement and visual encoding
//  3. [render] - PNG and Graphviz artifact generation
//  4. [cache], [pipeline] - staged execution with content-addressed caching
//  5. [api] - the HTTP surface over the pipeline
//
// # Architecture
//
// The typical data flow:
//
//	Dataset (embedded JSON / file store / MongoDB)
//	         |
//	     filter.Apply
//	         |
//	   layout.Registry  -> []layout.Placed
//	         |
//	   render.RenderPNG / render.ToDOT
//	         |
//	   artifacts (PNG, SVG, DOT, JSON)
//
// Each stage is cached independently; see [cache.Keyer] for the key scheme.
package pkg
