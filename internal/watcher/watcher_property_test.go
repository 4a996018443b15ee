//go:build property

package watcher

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDebouncerProperties validates batching of pending events
func TestDebouncerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9876)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// Property: a flush yields one event per path, sorted, keeping the last
	properties.Property("flush deduplicates by path", prop.ForAll(
		func(indices []int) bool {
			d := &Debouncer{
				delay:  time.Hour,
				output: make(chan []ChangeEvent, 1),
			}
			last := make(map[string]EventType)
			for i, idx := range indices {
				path := fmt.Sprintf("file-%d.ts", idx)
				typ := EventType(i % 4)
				d.pending = append(d.pending, ChangeEvent{Path: path, Type: typ})
				last[path] = typ
			}

			d.flush()

			if len(indices) == 0 {
				return len(d.output) == 0
			}
			batch := <-d.output
			if len(batch) != len(last) || len(d.pending) != 0 {
				return false
			}
			if !sort.SliceIsSorted(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path }) {
				return false
			}
			for _, ev := range batch {
				if last[ev.Path] != ev.Type {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 9)),
	))

	// Property: extension filter matching is case-insensitive
	properties.Property("extension filter ignores case", prop.ForAll(
		func(name string, upper bool) bool {
			ext := ".yaml"
			if upper {
				ext = ".YAML"
			}
			return ExtensionFilter(".yaml", ".yml")(name+ext) && !ExtensionFilter(".yaml")(name+".json")
		},
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
