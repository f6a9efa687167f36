// Package pixel implements the color spaces used for perceptual palette
// matching: 8-bit sRGB for interchange, linear-light RGB for arithmetic, and
// Oklab/Oklch for distance and saturation work.
//
// The sRGB transfer curve follows IEC 61966-2-1 and is table-driven; the
// Oklab conversion uses Björn Ottosson's published matrices. Types are
// compatible with Go's native [color.Color] interface where that is
// meaningful.
package pixel
