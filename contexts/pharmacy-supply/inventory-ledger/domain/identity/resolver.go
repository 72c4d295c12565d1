package identity

// Role is a two-variant sum type. Every caller identity is exactly one of the
// two; there is no "no role" state and no dynamic reassignment.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Resolver classifies caller identities against the single admin identity
// captured once at ledger initialization and fixed for its lifetime.
type Resolver struct {
	admin string
}

func NewResolver(adminIdentity string) Resolver {
	return Resolver{admin: adminIdentity}
}

func (r Resolver) Resolve(identity string) Role {
	if r.IsAdmin(identity) {
		return RoleAdmin
	}
	return RoleStaff
}

func (r Resolver) IsAdmin(identity string) bool {
	return identity != "" && identity == r.admin
}

// IsStaff is the logical negation of IsAdmin.
func (r Resolver) IsStaff(identity string) bool {
	return !r.IsAdmin(identity)
}
