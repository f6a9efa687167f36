// Package dither quantizes images to the small fixed palettes of e-ink
// and e-paper panels.
//
// Colors are matched in the Oklab perceptual space against the colors a
// panel actually shows, while output indices refer to the official palette
// the rest of a pipeline expects. Nine error diffusion kernels share one
// serpentine scan loop with blue-noise kernel jitter and chromatic error
// damping; the BlueNoise and Simplex modes decide each pixel independently
// for stable graphics output. [Render] runs the whole pipeline for a
// content [Intent]; [Ditherer] and [Preprocessor] expose the stages
// separately.
package dither
