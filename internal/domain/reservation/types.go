package reservation

type Status string

const (
	// StatusActive: waiting in the queue for a copy.
	StatusActive Status = "active"
	// StatusAvailable: a copy is held for pickup.
	StatusAvailable Status = "available"
	StatusFulfilled Status = "fulfilled"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusAvailable, StatusFulfilled, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsLive reports whether the reservation still occupies one of the user's
// reservation slots (counts toward the per-user cap).
func (s Status) IsLive() bool {
	return s == StatusActive || s == StatusAvailable
}
