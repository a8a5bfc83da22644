// Package cache implements the two-tier cache that sits in front of every
// rate-limited source fetch.
//
// Tiers:
//   - Ephemeral: in-process map, lost on restart, evicted lazily on read
//   - Durable: persistent store (PostgreSQL, Redis, or memory for local runs)
//
// Reads are cache-aside: ephemeral first, then durable, and a durable hit is
// promoted into the ephemeral tier for a short fixed TTL. The durable tier is
// authoritative; anything it holds can be rebuilt by re-fetching from the
// source when both tiers miss.
//
// An entry is valid while now < ExpiresAt. Expired entries read as absent.
package cache
