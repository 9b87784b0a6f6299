// internal/domain/admin/entity.go
package admin

import "time"

// Admin is a row in the admins table. IDs are ULIDs assigned at creation.
type Admin struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	LastLogin    *time.Time `json:"last_login" db:"last_login"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Info represents public admin information returned to the panel.
type Info struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	LastLogin *time.Time `json:"last_login"`
}

func (a *Admin) Info() Info {
	return Info{
		ID:        a.ID,
		Email:     a.Email,
		LastLogin: a.LastLogin,
	}
}
