package quiz

import "time"

// The gates are pure predicates over whatever instant they are given. Both
// the start and the submit instant are client-reported, not read from a
// server clock, so the gates offer no protection against a caller lying
// about the time.

// CheckAvailability reports whether a new attempt may begin at the claimed
// start instant. Nil bounds impose no restriction.
func CheckAvailability(q Quiz, at time.Time) error {
	if q.AvailableFrom != nil && at.Before(*q.AvailableFrom) {
		return ErrNotYetAvailable
	}
	if q.AvailableUntil != nil && at.After(*q.AvailableUntil) {
		return ErrNoLongerAvailable
	}
	return nil
}

// CheckAttemptLimit reports whether another attempt is allowed given the
// number already recorded for the (quiz, user) pair. A cap of zero (or
// negative) means unlimited.
func CheckAttemptLimit(maxAttempts, priorAttempts int) error {
	if maxAttempts <= 0 {
		return nil
	}
	if priorAttempts >= maxAttempts {
		return ErrAttemptLimitReached
	}
	return nil
}

// CheckSubmittable reports whether a submission is still acceptable at the
// claimed submit instant. A nil due date imposes no restriction.
func CheckSubmittable(q Quiz, at time.Time) error {
	if q.DueDate != nil && at.After(*q.DueDate) {
		return ErrPastDue
	}
	return nil
}
