package domain

// Principal es la identidad autenticada resuelta desde credenciales o desde un token.
// El ID es la unica clave de identidad.
type Principal struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Admin        bool   `json:"admin"`
	PasswordHash string `json:"-"`
}

// Equal compara dos principals por ID.
func (p Principal) Equal(other Principal) bool {
	return p.ID == other.ID
}
