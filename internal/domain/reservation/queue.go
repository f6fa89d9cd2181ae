package reservation

// NextInQueue picks the reservation that should be promoted when a copy comes
// back: the active reservation with the smallest queue position. Selection is
// by minimum rather than by position == 1, so a transient gap left by an
// earlier promotion cannot stall the queue.
func NextInQueue(reservations []*Reservation) *Reservation {
	var next *Reservation
	for _, r := range reservations {
		if r.Status() != StatusActive {
			continue
		}
		if next == nil || r.QueuePosition() < next.QueuePosition() {
			next = r
		}
	}
	return next
}

// Renumber closes the gap left at removedPosition: every active reservation
// behind it moves up one place. Returns the reservations whose position
// changed, for persistence. Positions at or ahead of the removed slot are
// untouched, preserving 1..N contiguity with no duplicates.
func Renumber(active []*Reservation, removedPosition int) []*Reservation {
	var moved []*Reservation
	for _, r := range active {
		if r.Status() != StatusActive {
			continue
		}
		if r.QueuePosition() > removedPosition {
			// Position can only shrink toward 1 here, so the error path is
			// unreachable; ignore it.
			_ = r.Reposition(r.QueuePosition() - 1)
			moved = append(moved, r)
		}
	}
	return moved
}
