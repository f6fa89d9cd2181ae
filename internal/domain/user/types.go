package user

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

type MembershipType string

const (
	MembershipStandard MembershipType = "standard"
	MembershipPremium  MembershipType = "premium"
	MembershipStudent  MembershipType = "student"
)

func (m MembershipType) String() string {
	return string(m)
}

func (m MembershipType) IsValid() bool {
	switch m {
	case MembershipStandard, MembershipPremium, MembershipStudent:
		return true
	default:
		return false
	}
}
