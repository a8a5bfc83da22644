// Package ratelimit enforces a minimum interval between outbound requests
// to each external source.
//
// One Limiter exists per source for the whole process. Every SourceClient
// request, retries included, must pass through Wait before touching the
// network. A Limiter is a token bucket of size one refilled once per
// interval, so concurrent callers are granted strictly one at a time,
// first come first served.
package ratelimit
