// Package display holds the operator-supplied description of the target
// monitor and the patch grid to lay out on it.
//
// An [Options] value is an immutable snapshot: every layout or render call
// takes one explicitly instead of reading ambient UI state. Snapshots come
// from three places:
//
//   - [Defaults], the single source of default values
//   - [LoadFile], a TOML file with a [display] table
//   - [FromValues], a flat string map such as an HTML form submission
//
// [FromValues] coerces every field explicitly. Values that do not parse keep
// a zero value (false for booleans) and are listed in the returned
// [Coercion], so a half-edited form still yields a usable, if degenerate,
// snapshot.
package display
