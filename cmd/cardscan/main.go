// Command cardscan recognizes the inventory shown in a sequence of collection
// screenshots and writes the records as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"card-scanner/internal/catalog"
	"card-scanner/internal/config"
	"card-scanner/internal/glyph"
	"card-scanner/internal/inventory"
	"card-scanner/internal/ocr"
	"card-scanner/internal/recognize"
	"card-scanner/internal/version"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// output is the JSON document written by cardscan.
type output struct {
	Records      map[inventory.Kind][]inventory.Record `json:"records"`
	Observations []inventory.HashEntry                 `json:"observations"`
	Unresolved   int                                   `json:"unresolved"`
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	itemsPath := flag.String("items", "", "Item catalog JSON")
	hashesPath := flag.String("hashes", "", "Hash catalog JSON (default: config dir)")
	templateDir := flag.String("templates", "", "Template directory (default: built-in)")
	outPath := flag.String("out", "", "Output JSON (default: stdout)")
	dumpDir := flag.String("dump", "", "Write unresolved card images here")
	merge := flag.Bool("merge", false, "Merge new observations into the hash catalog")
	useOCR := flag.Bool("ocr", false, "Read unmatched points badges with Tesseract")
	verbose := flag.Bool("v", false, "Verbose diagnostics")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Println("Usage: cardscan -items items.json [-hashes hashes.json] [-out result.json] [-dump dir] [-merge] [-ocr] <screenshot>...")
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
	cfg.OCRFallback = cfg.OCRFallback || *useOCR
	cfg.Verbose = cfg.Verbose || *verbose

	log.Printf("cardscan %s", version.String())

	if cfg.ItemsPath == "" {
		log.Fatalf("No item catalog: pass -items or set %s", config.ItemsPathVar)
	}
	items, err := catalog.LoadItems(cfg.ItemsPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	orders := catalog.Orders(items)

	if cfg.HashesPath == "" {
		if cfg.HashesPath, err = catalog.DefaultHashPath(); err != nil {
			log.Fatalf("%v", err)
		}
	}
	store, err := catalog.LoadHashStore(cfg.HashesPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("Catalog: %d items in %d kinds, %d hashes", len(items), len(orders), len(store.Entries))

	sets, err := glyph.LoadSets(cfg.Templates())
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}
	if cfg.Verbose {
		log.Printf("Templates: %s", sets)
	}
	engine := recognize.NewEngine(sets, cfg.EngineOptions())
	if cfg.OCRFallback {
		reader, err := ocr.NewEngine()
		if err != nil {
			log.Fatalf("Failed to start OCR: %v", err)
		}
		defer reader.Close()
		reader.Verbose = cfg.Verbose
		engine = engine.WithFallback(reader)
	}

	screens, err := loadScreens(flag.Args())
	if err != nil {
		log.Fatalf("%v", err)
	}

	result, err := engine.Recognize(screens, store.Snapshot(), orders)
	if err != nil {
		log.Fatalf("Recognition failed: %v", err)
	}

	unresolved := result.Unresolved()
	log.Printf("Recognized %d slots, %d unresolved", len(result.Cards), len(unresolved))

	if *dumpDir != "" {
		if err := dumpCards(*dumpDir, unresolved); err != nil {
			log.Printf("Dump failed: %v", err)
		}
	}

	if *merge {
		added := store.Merge(result.Observations)
		if err := store.Save(); err != nil {
			log.Fatalf("Failed to save hash catalog: %v", err)
		}
		log.Printf("Merged %d new hashes into %s", added, cfg.HashesPath)
	}

	data, err := json.MarshalIndent(output{
		Records:      result.Records,
		Observations: result.Observations,
		Unresolved:   len(unresolved),
	}, "", "  ")
	if err != nil {
		log.Fatalf("Failed to serialize result: %v", err)
	}
	if *outPath == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(*outPath, data, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *outPath, err)
	}
}

func loadScreens(paths []string) ([]image.Image, error) {
	screens := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := imaging.Open(p)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", p, err)
		}
		screens = append(screens, img)
	}
	return screens, nil
}

// dumpCards saves the retained image of every unresolved card so it can be
// labeled by hand.
func dumpCards(dir string, cards []inventory.Card) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	n := 0
	for _, c := range cards {
		if c.Image == nil {
			continue
		}
		name := fmt.Sprintf("unresolved_s%02d_%d_%d.png", c.Screenshot, c.Slot.Left, c.Slot.Top)
		if err := imaging.Save(c.Image, filepath.Join(dir, name)); err != nil {
			return err
		}
		n++
	}
	log.Printf("Wrote %d card images to %s", n, dir)
	return nil
}
