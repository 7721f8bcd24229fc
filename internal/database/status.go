package database

// Status gates content visibility on the public site. This is the canonical
// enumeration for FAQ, Job and Program records; unknown values are rejected
// at the API boundary.
type Status string

const (
	StatusPublic  Status = "public"
	StatusPrivate Status = "private"
)

// Valid reports whether s is a member of the closed set.
func (s Status) Valid() bool {
	return s == StatusPublic || s == StatusPrivate
}

// UserStatus tracks the lifecycle of an admin account.
type UserStatus string

const (
	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusBanned  UserStatus = "banned"
)

// Valid reports whether s is a member of the closed set.
func (s UserStatus) Valid() bool {
	return s == UserStatusPending || s == UserStatusActive || s == UserStatusBanned
}

// ContactStatus tracks whether an inquiry has been handled.
type ContactStatus string

const (
	ContactStatusPending  ContactStatus = "pending"
	ContactStatusResolved ContactStatus = "resolved"
)

// Valid reports whether s is a member of the closed set.
func (s ContactStatus) Valid() bool {
	return s == ContactStatusPending || s == ContactStatusResolved
}
