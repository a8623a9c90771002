// Package factory indexes a catalog of transformation-element factories by
// their capability templates, so the planner can query "which factories can
// consume/produce this capability" without re-scanning the catalog on every
// candidate.
package factory

import (
	"strings"

	"github.com/lvroute/autoroute/caps"
)

// ID identifies a factory within a catalog. Opaque to the planner; only
// equality matters.
type ID string

// Klass is a bitset over the element classification tokens the host may
// declare on a factory (see CatalogEntry.Classification).
type Klass uint8

const (
	Parser Klass = 1 << iota
	Decoder
	Converter
	Encoder
)

// classOrder is the non-decreasing stage order class-ordering validation
// enforces: Parser before Decoder before Converter before Encoder.
var classOrder = []Klass{Parser, Decoder, Converter, Encoder}

// Stage returns the index into classOrder of the first bit set in k, or -1
// if k has none of the known bits set.
func (k Klass) Stage() int {
	for i, bit := range classOrder {
		if k&bit != 0 {
			return i
		}
	}
	return -1
}

// parseKlassMask derives a Klass bitset from a factory's free-text
// classification string by substring-matching the known tokens, per
// spec.md §4.1.
func parseKlassMask(classification string) Klass {
	var mask Klass
	if strings.Contains(classification, "Parser") {
		mask |= Parser
	}
	if strings.Contains(classification, "Decoder") {
		mask |= Decoder
	}
	if strings.Contains(classification, "Converter") {
		mask |= Converter
	}
	if strings.Contains(classification, "Encoder") {
		mask |= Encoder
	}
	return mask
}

// CatalogEntry is one factory as declared by the host policy layer
// (host.Policy.GetFactories), before indexing. A catalog entry not
// conforming to the single-sink/single-src shape — i.e. not exactly one
// sink template and one src template — is silently skipped by Build, per
// spec.md §4.1.
type CatalogEntry struct {
	ID             ID
	SinkCaps       caps.Set
	SrcCaps        caps.Set
	Classification string

	// MultiPad, when true, marks a factory with more than one input or
	// output pad. The core only plans single-input/single-output chains
	// (spec.md §1 Non-goals); such factories are skipped by Build.
	MultiPad bool
}

// Entry is an immutable, indexed factory: resolved template capabilities
// plus the derived classification mask. Entries never change after
// Index.Build returns; the index as a whole is replaced wholesale on
// rebuild.
type Entry struct {
	FactoryID ID
	SinkCaps  caps.Set
	SrcCaps   caps.Set
	KlassMask Klass
}
