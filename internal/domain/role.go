package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"

	// RoleAny is accepted by authorization checks that only need an
	// authenticated session.
	RoleAny Role = ""
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}
