// Package deal scores a listing's total price against its sale history.
//
// Score is pure and deterministic. It never fails: missing or thin history
// yields a neutral score of 50 with zero confidence.
package deal
