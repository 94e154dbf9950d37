package models

import "time"

// User is the persisted account record. PasswordHash never leaves the server:
// projections returned to clients are built via Public().
type User struct {
	ID           string
	Name         string
	Contact      string
	PasswordHash []byte
	CreatedAt    time.Time
}

// PublicUser is the identity projection exposed through the API.
// It deliberately has no credential fields.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Public strips credential material from the record.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Contact:   u.Contact,
		CreatedAt: u.CreatedAt,
	}
}
