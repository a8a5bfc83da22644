// Package pricing assembles PriceHistory from completed sales and serves it
// through the tiered cache. It also looks up canonical issue records from the
// bibliographic sources.
package pricing
