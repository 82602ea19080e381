package domain

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal construye la identidad autenticada asociada al usuario.
func (u User) Principal() Principal {
	return Principal{
		ID:           u.ID,
		Username:     u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Admin:        u.Admin,
		PasswordHash: u.PasswordHash,
	}
}
