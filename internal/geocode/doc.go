// Package geocode resolves store and property records to map coordinates.
//
// Resolution is tiered: shopping-center overrides first, then manual
// fallbacks, then the address register, then the place-name register. Every
// resolved coordinate is tagged with the tier that produced it, and stores
// sharing an address are spread with a deterministic jitter so markers never
// stack.
package geocode
