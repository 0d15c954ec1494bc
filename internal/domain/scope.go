package domain

// Scope restricts which owners' records a query may touch.
//
// The zero value matches no rows. Use OwnedBy for a principal's own records
// and AllOwners for admin operations.
type Scope struct {
	ownerID int64
	all     bool
}

// OwnedBy scopes queries to records owned by userID.
func OwnedBy(userID int64) Scope {
	return Scope{ownerID: userID}
}

// AllOwners lifts the ownership filter entirely.
func AllOwners() Scope {
	return Scope{all: true}
}

// OwnerFilter returns the owner id to filter on, or false when unrestricted.
func (s Scope) OwnerFilter() (int64, bool) {
	if s.all {
		return 0, false
	}
	return s.ownerID, true
}

// Unrestricted reports whether the scope spans all owners.
func (s Scope) Unrestricted() bool {
	return s.all
}
