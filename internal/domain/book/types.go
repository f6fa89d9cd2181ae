package book

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDamaged  Status = "damaged"
	StatusLost     Status = "lost"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDamaged, StatusLost:
		return true
	default:
		return false
	}
}
