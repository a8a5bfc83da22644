// Package model defines the shared data types used across longbox.
//
// Conventions:
//   - Prices: float64 in the listing currency (USD unless Currency says otherwise)
//   - Timestamps: time.Time, UTC
//   - IDs: uuid.UUID for want-list rows, provider strings for external items
package model
