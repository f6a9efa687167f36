package dither

// blueNoise is a 64×64 tile of threshold values with blue-noise spectral
// character, shared by the kernel jitter and the ordered modes. The tile
// is filled once at init from a deterministic hash so every build produces
// identical output.
var blueNoise [64][64]uint8

func init() {
	const size = 64
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			xf := uint32(x * (1 << 24) / size)
			yf := uint32(y * (1 << 24) / size)

			h := uint32(y*size + x)
			h *= 0x85ebca6b
			h ^= h >> 13
			h *= 0xc2b2ae35
			h ^= h >> 16
			h += xf * 0x045d9f3b
			h ^= h >> 11
			h += yf * 0x119de1f3
			h ^= h >> 15
			h *= 0x27d4eb2d
			h ^= h >> 13

			blueNoise[y][x] = uint8(h >> 24)
		}
	}
}
