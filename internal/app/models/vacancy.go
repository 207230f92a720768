package models

import "time"

// DefaultCapacity applies when a vacancy has no seat count set.
const DefaultCapacity = 1

// Vacancy is a posted opening owned by one professor or institution.
type Vacancy struct {
	ID          int64      `json:"id" db:"id"`
	Owner       AccountRef `json:"owner"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Capacity    *int       `json:"capacity,omitempty" db:"capacity"`
	PublishedAt time.Time  `json:"publishedAt" db:"published_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// EffectiveCapacity returns the seat count, defaulting to 1 when unset.
func (v *Vacancy) EffectiveCapacity() int {
	if v.Capacity == nil {
		return DefaultCapacity
	}
	if *v.Capacity < 0 {
		return 0
	}
	return *v.Capacity
}

// OwnedBy reports whether ref is the vacancy's owner.
func (v *Vacancy) OwnedBy(ref AccountRef) bool {
	return v.Owner.Same(ref)
}

// AvailableSeats computes max(capacity - accepted, 0).
func AvailableSeats(capacity, accepted int) int {
	if seats := capacity - accepted; seats > 0 {
		return seats
	}
	return 0
}
