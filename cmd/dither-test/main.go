package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	_ "github.com/xfmoulet/qoi"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/BeatGlow/dither"
	"github.com/BeatGlow/dither/internal/testcard"
	"github.com/BeatGlow/dither/palette"
)

// Default test card size, matching the common 7.3" ACeP panel.
const (
	cardWidth  = 800
	cardHeight = 480
)

// The 7-color ACeP gamut: black, white, red, green, blue, yellow, orange.
const acepPalette = "000000,ffffff,ff0000,00ff00,0000ff,ffff00,ff8000"

func main() {
	inFlag := flag.String("in", "", "input image (PNG, JPEG, GIF, WebP, BMP, TIFF or QOI)")
	cardFlag := flag.Bool("card", false, "render the built-in test card instead of reading -in")
	widthFlag := flag.Int("width", 0, "output width (0: keep input width)")
	heightFlag := flag.Int("height", 0, "output height (0: keep input height)")
	paletteFlag := flag.String("palette", acepPalette, "comma-separated official palette colors")
	actualFlag := flag.String("actual", "", "comma-separated measured panel colors")
	intentFlag := flag.String("intent", "photo", "rendering intent: photo or graphics")
	algorithmFlag := flag.String("algorithm", "", "dithering algorithm (overrides the intent's choice)")
	serpentineFlag := flag.Bool("serpentine", true, "alternate the scan direction every row")
	strengthFlag := flag.Float64("strength", 1, "error diffusion strength")
	noiseFlag := flag.Float64("noise", -1, "diffusion noise scale (-1: algorithm default)")
	clampFlag := flag.Float64("clamp", 0, "error clamp (0: algorithm default)")
	chromaFlag := flag.Float64("chroma-clamp", -1, "chroma damping threshold (-1: default, 0: off)")
	saturationFlag := flag.Float64("saturation", 0, "saturation multiplier (0: intent default)")
	contrastFlag := flag.Float64("contrast", 0, "contrast multiplier (0: intent default)")
	previewFlag := flag.String("preview", "actual", "preview colors: official or actual")
	outFlag := flag.String("out", "out.png", "output PNG path")
	frameFlag := flag.String("frame", "", "also write the compressed frame to this path")
	flag.Parse()

	if *inFlag == "" && !*cardFlag {
		fmt.Fprintf(os.Stderr, "Usage: %s -in <image> [options]\n       %s -card [options]\n", os.Args[0], os.Args[0])
		os.Exit(1)
	}

	p, err := palette.NewHex(splitColors(*paletteFlag), splitColors(*actualFlag))
	if err != nil {
		fatal(err)
	}
	fmt.Printf("using palette: %d colors\n", p.Len())

	var (
		preCfg dither.PreprocessConfig
		cfg    dither.Config
	)
	switch strings.ToLower(*intentFlag) {
	case "", "photo":
		preCfg = dither.PhotoPreprocessConfig
		cfg = dither.Atkinson.DefaultConfig()
	case "graphic", "graphics":
		preCfg = dither.DefaultPreprocessConfig
		cfg = dither.BlueNoise.DefaultConfig()
	default:
		fatal(fmt.Errorf("invalid intent %q, want photo or graphics", *intentFlag))
	}

	if *algorithmFlag != "" {
		algo, err := dither.ParseAlgorithm(*algorithmFlag)
		if err != nil {
			fatal(err)
		}
		cfg = algo.DefaultConfig()
	}
	cfg.Serpentine = *serpentineFlag
	cfg.Strength = *strengthFlag
	if *noiseFlag >= 0 {
		cfg.NoiseScale = *noiseFlag
	}
	if *clampFlag > 0 {
		cfg.ErrorClamp = *clampFlag
	}
	if *chromaFlag >= 0 {
		cfg.ChromaClamp = *chromaFlag
	}
	if *saturationFlag > 0 {
		preCfg.Saturation = *saturationFlag
	}
	if *contrastFlag > 0 {
		preCfg.Contrast = *contrastFlag
	}
	fmt.Printf("using algorithm: %s\n", cfg.Algorithm)

	var src image.Image
	if *cardFlag {
		w, h := *widthFlag, *heightFlag
		if w < 1 {
			w = cardWidth
		}
		if h < 1 {
			h = cardHeight
		}
		src = testcard.Card(w, h, p)
		fmt.Printf("using input: %s test card\n", src.Bounds().Size())
	} else {
		if src, err = loadImage(*inFlag); err != nil {
			fatal(err)
		}
		preCfg.Width = *widthFlag
		preCfg.Height = *heightFlag
		fmt.Printf("using input: %s %s\n", *inFlag, src.Bounds().Size())
	}

	res := dither.NewPreprocessor(p, &preCfg).Process(src)
	out := dither.New(p, &cfg).DitherPixels(res.Pix, res.Width, res.Height)

	var view image.Image
	switch strings.ToLower(*previewFlag) {
	case "official":
		view = out
	case "", "actual":
		view = out.Actual()
	default:
		fatal(fmt.Errorf("invalid preview %q, want official or actual", *previewFlag))
	}

	if err = writePNG(*outFlag, view); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s %s\n", *outFlag, out.Bounds().Size())

	if *frameFlag != "" {
		if err = writeFrame(*frameFlag, out); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s\n", *frameFlag)
	}
}

func splitColors(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return m, nil
}

func writePNG(path string, m image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = png.Encode(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeFrame(path string, m *dither.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = dither.EncodeFrame(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
