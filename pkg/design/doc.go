// Package design defines flicker patches and the plain-text "design text"
// format that stores an ordered set of them.
//
// # Format
//
// Each patch is one comma-separated record; records are joined by ";\n":
//
//	index,pid,x,y,w,h,omega,phi
//	0,p-1,720,540,384,432,13.42,5.01;
//	1,p-2,1200,540,384,432,17.90,0.33
//
// index is the 0-based position at serialization time and is informational.
// x, y are the patch center and w, h its size, all in resolution-space pixels.
// omega is the flicker frequency in Hz and phi the phase in radians, both with
// two decimals.
//
// # Parsing
//
// [Parse] is the lenient reader used for previews. It keeps pid, x, y, w and h
// as the literal strings found in the text and drops index, omega and phi, so
// a hand-edited or half-typed design never fails to parse. Numbers are
// coerced later by [Record.Box].
//
// [ParseSpectral] is the strict reader used where frequency and phase matter
// (session storage, analysis, run submission). It returns an error for any
// malformed record.
//
// # Uniqueness
//
// Patch ids should be unique within a design. [ValidateUnique] reports
// duplicates; it does not remove them, and callers keep using the design as
// parsed.
package design
