package enums

// AdminRole scopes what an authenticated back-office user may do.
type AdminRole string

const (
	AdminRoleAdmin AdminRole = "admin"
	AdminRoleOwner AdminRole = "owner"
)

func (r AdminRole) String() string {
	return string(r)
}

func (r AdminRole) IsValid() bool {
	return r == AdminRoleAdmin || r == AdminRoleOwner
}
