// Package elevation computes the visual layout of a rack's front face.
//
// The single entry point, Compute, turns a rack height and the rack's
// device list into an ordered top-to-bottom sequence of slots: one slot
// per mounted device spanning its full unit range, and one single-unit
// slot per empty unit. The computation is pure and derived; nothing is
// persisted and nothing is read beyond the arguments.
//
// Bad geometry (overlapping spans, devices past the rack boundary,
// non-positive heights) never fails the layout. The engine degrades to
// a best-effort slot sequence and reports what it found through the
// Result's diagnostics list, so a rack with bad historical data still
// renders.
package elevation
