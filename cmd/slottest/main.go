// Command slottest runs slot location and per-slot classification on one
// screenshot and prints the results.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"card-scanner/internal/catalog"
	"card-scanner/internal/classify"
	"card-scanner/internal/config"
	"card-scanner/internal/glyph"
	"card-scanner/internal/screen"
	"card-scanner/internal/screen/screentest"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

func main() {
	imagePath := flag.String("image", "", "Path to screenshot (PNG, JPEG, TIFF, or WebP)")
	hashesPath := flag.String("hashes", "", "Hash catalog JSON (optional)")
	templateDir := flag.String("templates", "", "Template directory (default: built-in)")
	dumpDir := flag.String("dump", "", "Write background mask and normalized cards here")
	demo := flag.Int("demo", 0, "Use a synthetic screenshot of this many cards instead of -image")
	flag.Parse()

	if *imagePath == "" && *demo <= 0 {
		fmt.Println("Usage: slottest -image <path> | -demo <n> [-hashes hashes.json] [-templates dir] [-dump dir]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *templateDir != "" {
		cfg.TemplateDir = *templateDir
	}
	if *hashesPath != "" {
		cfg.HashesPath = *hashesPath
	}

	opts := cfg.EngineOptions()
	layout := opts.Layout

	var img image.Image
	if *demo > 0 {
		img = demoScreen(layout, *demo)
	} else if img, err = imaging.Open(*imagePath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	bounds := img.Bounds()
	fmt.Printf("Loaded image: %dx%d pixels\n", bounds.Dx(), bounds.Dy())
	bg := layout.Background
	fmt.Printf("\nLayout:\n")
	fmt.Printf("  Background HSV: H(%.0f-%.0f) S(%.0f-%.0f) V(%.0f-%.0f)\n",
		bg.HueMin, bg.HueMax, bg.SatMin, bg.SatMax, bg.ValMin, bg.ValMax)
	fmt.Printf("  Card: %dx%d (ratio %.3f, tolerance %.2f)\n",
		layout.CardWidth, layout.CardHeight, layout.CardRatio(), layout.RatioTolerance)
	fmt.Printf("  Min streak width: %d  Min slot area: %d  Min fill: %.2f\n",
		layout.MinStreakWidth, layout.MinSlotArea, layout.MinSlotFill)

	det := screen.FindSlots(img, layout)
	fmt.Printf("\n%s\n", det)

	sets, err := glyph.LoadSets(cfg.Templates())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load templates: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Templates: %s\n", sets)

	var index *classify.Index
	if cfg.HashesPath != "" {
		store, err := catalog.LoadHashStore(cfg.HashesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load hashes: %v\n", err)
			os.Exit(1)
		}
		index = classify.NewIndex(store.Snapshot(), nil, opts.Classify.Metric)
		fmt.Printf("Hash catalog: %d entries (%d skipped)\n", index.Len(), index.Skipped())
	}
	cls := classify.New(layout, sets, index, opts.Classify)

	if *dumpDir != "" {
		if err := os.MkdirAll(*dumpDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create dump dir: %v\n", err)
			os.Exit(1)
		}
		mask := screen.BuildMask(img, layout.Background)
		if err := imaging.Save(mask, filepath.Join(*dumpDir, "mask.png")); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save mask: %v\n", err)
		}
	}

	fmt.Printf("\n%-4s %-22s %6s %6s %-24s %12s\n", "#", "Slot", "Level", "Points", "ID", "Distance")
	for i, r := range det.Slots {
		card := screen.Normalize(img, r, layout)
		c, err := cls.Classify(card)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Slot %d: %v\n", i, err)
			continue
		}
		fmt.Printf("%-4d %-22s %6s %6s %-24s %12d\n",
			i, r, optInt(c.Level), optInt(c.Points), c.ID, c.Distance)

		if *dumpDir != "" {
			name := filepath.Join(*dumpDir, fmt.Sprintf("slot_%02d.png", i))
			if err := imaging.Save(card, name); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to save %s: %v\n", name, err)
			}
		}
	}

	fmt.Printf("\nTotal: %d slots\n", len(det.Slots))
}

// demoScreen draws n synthetic cards, four per row.
func demoScreen(layout screen.Layout, n int) image.Image {
	cards := make([]*image.NRGBA, n)
	for i := range cards {
		cards[i] = screentest.DrawCard(layout, screentest.Item(i, i%7+1, 37*i))
	}
	img, _ := screentest.Screenshot(cards, 4)
	return img
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
