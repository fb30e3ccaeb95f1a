// Command cardboot builds the hash catalog of one item kind from screenshots
// of its complete list, scrolled top to bottom.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"

	"card-scanner/internal/bootstrap"
	"card-scanner/internal/catalog"
	"card-scanner/internal/config"
	"card-scanner/internal/glyph"
	"card-scanner/internal/inventory"
	"card-scanner/internal/recognize"
	"card-scanner/internal/version"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	itemsPath := flag.String("items", "", "Item catalog JSON")
	hashesPath := flag.String("hashes", "", "Hash catalog JSON to update (default: config dir)")
	templateDir := flag.String("templates", "", "Template directory (default: built-in)")
	kind := flag.String("kind", "", "Item kind shown in the screenshots")
	rowSize := flag.Int("row", bootstrap.RowSize, "Slots per screen row")
	dryRun := flag.Bool("n", false, "Report only, do not save")
	verbose := flag.Bool("v", false, "Verbose diagnostics")
	flag.Parse()

	if *kind == "" || flag.NArg() == 0 {
		fmt.Println("Usage: cardboot -items items.json -kind <kind> [-hashes hashes.json] [-row 4] [-n] <screenshot>...")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *itemsPath != "" {
		cfg.ItemsPath = *itemsPath
	}
	if *hashesPath != "" {
		cfg.HashesPath = *hashesPath
	}
	if *templateDir != "" {
		cfg.TemplateDir = *templateDir
	}
	cfg.Verbose = cfg.Verbose || *verbose

	log.Printf("cardboot %s", version.String())

	if cfg.ItemsPath == "" {
		log.Fatalf("No item catalog: pass -items or set %s", config.ItemsPathVar)
	}
	items, err := catalog.LoadItems(cfg.ItemsPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	order, ok := catalog.Orders(items)[inventory.Kind(*kind)]
	if !ok {
		log.Fatalf("Kind %q not in item catalog", *kind)
	}

	if cfg.HashesPath == "" {
		if cfg.HashesPath, err = catalog.DefaultHashPath(); err != nil {
			log.Fatalf("%v", err)
		}
	}
	store, err := catalog.LoadHashStore(cfg.HashesPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	sets, err := glyph.LoadSets(cfg.Templates())
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}
	if cfg.Verbose {
		log.Printf("Templates: %s", sets)
	}
	engine := recognize.NewEngine(sets, cfg.EngineOptions())

	screens := make([]image.Image, 0, flag.NArg())
	for _, p := range flag.Args() {
		img, err := imaging.Open(p)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", p, err)
		}
		screens = append(screens, img)
	}

	opts := bootstrap.DefaultOptions()
	opts.RowSize = *rowSize
	opts.Threshold = cfg.IdentityThreshold
	opts.Metric = engine.Options().Classify.Metric
	opts.Verbose = cfg.Verbose

	entries, err := bootstrap.Build(engine, screens, order, opts)
	if err != nil {
		var wl *bootstrap.WrongLengthError
		if errors.As(err, &wl) {
			log.Fatalf("Bootstrap of %s failed: saw %d distinct slots, catalog has %d items", *kind, wl.Observed, wl.Expected)
		}
		log.Fatalf("Bootstrap of %s failed: %v", *kind, err)
	}
	log.Printf("Bootstrapped %d hashes for %s", len(entries), *kind)

	if *dryRun {
		for _, e := range entries {
			fmt.Printf("%-24s %s\n", e.ID, e.Hash)
		}
		return
	}

	store.Replace(order.IDs, entries)
	if err := store.Save(); err != nil {
		log.Fatalf("Failed to save hash catalog: %v", err)
	}
	log.Printf("Saved %s", cfg.HashesPath)
}
