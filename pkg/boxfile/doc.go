// Package boxfile reads and writes BOX documents, the line-oriented format
// that declares a box tower.
//
// # Format
//
// Each non-blank line declares one node:
//
//	name(dep1, dep2, ...)[.style][: label text]
//
// Names and styles match [\w-]+. Every dependency must be declared on an
// earlier line. An empty list means the node rests on the ground. The style
// defaults to box-generic and selects a CSS class in the SVG output. A
// backslash in the label starts a new line.
//
//	# chapters of a book
//	intro(): Introduction
//	sets(intro).blue: Sets and\Functions
//	groups(sets).red: Groups
//	rings(groups, sets).red: Rings
//
// Lines starting with # are comments. Any other line is a [SyntaxError] and
// aborts parsing. Graph errors such as duplicate names come back as a
// [LineError] wrapping the [dag] sentinel, so errors.Is still matches them.
package boxfile
