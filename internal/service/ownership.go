package service

// AuthorizeDelete permite borrar solo si el principal es el dueño del recurso.
func AuthorizeDelete(principalUsername, resourceOwnerEmail string) error {
	if principalUsername != resourceOwnerEmail {
		return ErrForbidden
	}
	return nil
}
