// Package layout computes card positions for dataset entities.
//
// A layout strategy turns a list of entities into a list of placed cards:
// rectangles (or center-anchored squares for the radial views) with optional
// group membership and header positions. Strategies are pure with respect to
// their input; the same entities, dimensions and config always produce the
// same placement.
//
// The package ships a closed set of strategies covering five families:
//
//   - grids and ordered rows (grid, mass-order, linear, standard-grid, split)
//   - grouped mini-grids (polarity, geometry, bond-type, state, charge,
//     stability, category) and the dipole-moment chart
//   - scatter plots (phase, density, charge-mass)
//   - radial arrangements (circular, mass-spiral, force-network, eightfold)
//   - trees (bond-complexity, quark-tree, baryon-meson)
//
// A Registry owns one instance of every strategy, tracks the active mode and
// atomically swaps the current placement so concurrent readers (paint, hit
// testing) never observe a half-built layout.
package layout
