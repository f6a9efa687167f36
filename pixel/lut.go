package pixel

import "math"

// Transfer tables for the sRGB gamma curve (IEC 61966-2-1). 4096 entries
// per direction with linear interpolation keeps 8-bit round trips within
// one byte unit.
var (
	srgbToLinearTab [4096]float64
	linearToSRGBTab [4096]float64
)

func init() {
	for i := range srgbToLinearTab {
		v := float64(i) / 4095
		srgbToLinearTab[i] = srgbToLinearExact(v)
		linearToSRGBTab[i] = linearToSRGBExact(v)
	}
}

func srgbToLinearExact(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

func linearToSRGBExact(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1/2.4) - 0.055
}

// lookup interpolates tab at v. Input is clamped to [0, 1].
func lookup(tab *[4096]float64, v float64) float64 {
	if v <= 0 {
		return tab[0]
	}
	if v >= 1 {
		return tab[4095]
	}
	scaled := v * 4095
	i := int(scaled)
	if i >= 4095 {
		return tab[4095]
	}
	f := scaled - float64(i)
	return tab[i] + (tab[i+1]-tab[i])*f
}

func srgbToLinear(s float64) float64 { return lookup(&srgbToLinearTab, s) }

func linearToSRGB(l float64) float64 { return lookup(&linearToSRGBTab, l) }
