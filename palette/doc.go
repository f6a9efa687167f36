// Package palette models the color set of a small-palette panel: the
// official colors a datasheet promises and the actual colors the hardware
// shows. Matching runs in Oklab space under a configurable distance
// metric, selected automatically from the palette's chroma content.
package palette
