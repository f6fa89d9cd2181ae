package loan

type Status string

const (
	StatusBorrowed Status = "borrowed"
	StatusRenewed  Status = "renewed"
	StatusOverdue  Status = "overdue"
	StatusReturned Status = "returned"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusBorrowed, StatusRenewed, StatusOverdue, StatusReturned:
		return true
	default:
		return false
	}
}
