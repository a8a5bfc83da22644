// Package source provides the shared HTTP core used by every external
// source client (marketplace search and the bibliographic databases).
//
// Each Client owns exactly one ratelimit.Limiter and waits on it before
// every network call, retries included. A Client whose required
// credentials are missing is disabled: requests return ErrDisabled without
// touching the limiter or the network.
package source
