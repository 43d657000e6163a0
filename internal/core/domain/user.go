package domain

import "time"

// UserStatus represents the lifecycle state of a user.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserDeleted  UserStatus = "deleted"
)

// UserStatuses lists every valid user status in declaration order.
var UserStatuses = []UserStatus{UserActive, UserInactive, UserDeleted}

// Valid reports whether s belongs to the user status domain.
func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserInactive, UserDeleted:
		return true
	}
	return false
}

// ParseUserStatus converts a wire value into a UserStatus.
func ParseUserStatus(v string) (UserStatus, error) {
	s := UserStatus(v)
	if !s.Valid() {
		return "", invalidStatus(EntityUser, v)
	}
	return s, nil
}

// User owns zero or more tasks. Deletion is logical: a Deleted user keeps
// its row and its tasks.
type User struct {
	ID         int64
	Name       string
	Email      string
	Status     UserStatus
	Premium    bool
	ModifiedAt *time.Time
}

// NewUser builds an unsaved user, defaulting an empty status to Active.
func NewUser(name, email string, premium bool, status UserStatus) (*User, error) {
	if name == "" {
		return nil, Invalidf("name is required")
	}
	if email == "" {
		return nil, Invalidf("email is required")
	}
	if status == "" {
		status = UserActive
	}
	if !status.Valid() {
		return nil, invalidStatus(EntityUser, string(status))
	}
	return &User{
		Name:    name,
		Email:   email,
		Status:  status,
		Premium: premium,
	}, nil
}

// IsDeleted reports whether the user has been soft-deleted.
func (u *User) IsDeleted() bool {
	return u.Status == UserDeleted
}

// SetStatus moves the user to next and stamps ModifiedAt. Any status may
// follow any other.
func (u *User) SetStatus(next UserStatus, at time.Time) error {
	if !next.Valid() {
		return invalidStatus(EntityUser, string(next))
	}
	u.Status = next
	u.ModifiedAt = &at
	return nil
}

// UpgradeToPremium marks the user premium. Repeated calls only refresh
// ModifiedAt.
func (u *User) UpgradeToPremium(at time.Time) {
	u.Premium = true
	u.ModifiedAt = &at
}
