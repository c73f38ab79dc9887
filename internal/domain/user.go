package domain

import "time"

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone_number,omitempty"`
	AgeGroup  string    `json:"age_group,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Owner struct {
	ID     uint     `json:"id"`
	UserID uint     `json:"user_id"`
	Venues []string `json:"venues"`
}

type Manager struct {
	ID     uint     `json:"id"`
	UserID uint     `json:"user_id"`
	Venues []string `json:"venues"`
}

type Waiter struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	Name      string `json:"name"`
	VenueID   uint   `json:"-"`
	VenueCode string `json:"venue_id"`
}

// RoleBinding is one role a user can act as, with the venues it is scoped to.
type RoleBinding struct {
	Role      Role     `json:"role"`
	ProfileID uint     `json:"profile_id,omitempty"`
	Venues    []string `json:"venues,omitempty"`
}
