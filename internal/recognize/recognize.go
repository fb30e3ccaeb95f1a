// Package recognize runs the full screenshot-to-inventory pipeline: slot
// location, per-slot classification, and order-based deduction.
package recognize

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"card-scanner/internal/classify"
	"card-scanner/internal/deduce"
	"card-scanner/internal/glyph"
	"card-scanner/internal/inventory"
	"card-scanner/internal/screen"
	"card-scanner/pkg/geometry"
)

// Options configures an Engine.
type Options struct {
	Layout   screen.Layout
	Classify classify.Options

	// Slots classified in parallel; <= 0 means NumCPU.
	Workers int

	// Print per-screenshot diagnostics.
	Verbose bool
}

// DefaultOptions returns the production configuration.
func DefaultOptions() Options {
	return Options{
		Layout:   screen.DefaultLayout(),
		Classify: classify.DefaultOptions(),
	}
}

// WithWorkers returns a copy of the options with a fixed worker count.
func (o Options) WithWorkers(n int) Options {
	o.Workers = n
	return o
}

// Engine turns screenshots into recognized cards. Templates are loaded once;
// an Engine is safe for concurrent use.
type Engine struct {
	opts     Options
	sets     glyph.Sets
	fallback classify.DigitReader
}

// NewEngine creates an engine over loaded template sets.
func NewEngine(sets glyph.Sets, opts Options) *Engine {
	return &Engine{opts: opts, sets: sets}
}

// WithFallback returns a copy of the engine that uses r for unreadable
// points badges.
func (e *Engine) WithFallback(r classify.DigitReader) *Engine {
	cp := *e
	cp.fallback = r
	return &cp
}

// Options returns the engine configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// Result is the outcome of Recognize.
type Result struct {
	// Every located slot in screen order, after deduction.
	Cards []inventory.Card
	// Fully resolved cards, grouped by kind.
	Records map[inventory.Kind][]inventory.Record
	// (identity, hash) pairs seen in this batch, for merging into the hash catalog.
	Observations []inventory.HashEntry
}

// Unresolved returns the cards that still have no identity.
func (r *Result) Unresolved() []inventory.Card {
	var out []inventory.Card
	for _, c := range r.Cards {
		if !c.Resolved() {
			out = append(out, c)
		}
	}
	return out
}

// Recognize processes screenshots in capture order against a hash catalog
// and the catalog orders of every kind.
func (e *Engine) Recognize(screens []image.Image, hashes []inventory.HashEntry, orders map[inventory.Kind]*inventory.Order) (*Result, error) {
	index := classify.NewIndex(hashes, KindsOf(orders), e.opts.Classify.Metric)
	if e.opts.Verbose && index.Skipped() > 0 {
		fmt.Printf("[Recognize] Skipped %d unparsable catalog hashes\n", index.Skipped())
	}

	cards, err := e.Scan(screens, index)
	if err != nil {
		return nil, err
	}
	cards = deduce.Deduce(cards, orders)

	return &Result{
		Cards:        cards,
		Records:      inventory.Records(cards),
		Observations: inventory.Observations(cards),
	}, nil
}

// KindsOf maps every item of every order to its kind.
func KindsOf(orders map[inventory.Kind]*inventory.Order) map[inventory.ItemID]inventory.Kind {
	kinds := make(map[inventory.ItemID]inventory.Kind)
	for kind, o := range orders {
		for _, id := range o.IDs {
			kinds[id] = kind
		}
	}
	return kinds
}

type slotJob struct {
	screen int
	rect   geometry.Rect
}

// Scan locates and classifies every slot of every screenshot, in screen
// order. index may be nil to skip identity matching. No deduction is done.
func (e *Engine) Scan(screens []image.Image, index *classify.Index) ([]inventory.Card, error) {
	var jobs []slotJob
	for i, img := range screens {
		det := screen.FindSlots(img, e.opts.Layout)
		if e.opts.Verbose {
			fmt.Printf("[Recognize] Screenshot %d: %s\n", i, det)
		}
		for _, r := range det.Slots {
			jobs = append(jobs, slotJob{screen: i, rect: r})
		}
	}

	cls := classify.New(e.opts.Layout, e.sets, index, e.opts.Classify)
	if e.fallback != nil {
		cls = cls.WithFallback(e.fallback)
	}

	cards := make([]inventory.Card, len(jobs))
	errs := make([]error, len(jobs))

	workers := e.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				j := jobs[i]
				card := screen.Normalize(screens[j.screen], j.rect, e.opts.Layout)
				c, err := cls.Classify(card)
				if err != nil {
					errs[i] = fmt.Errorf("screenshot %d slot %s: %w", j.screen, j.rect, err)
					continue
				}
				c.Screenshot = j.screen
				c.Slot = j.rect
				cards[i] = c
			}
		}()
	}
	for i := range jobs {
		next <- i
	}
	close(next)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return cards, nil
}
