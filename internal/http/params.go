package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// idParam lee un id numerico de la ruta. Responde 400 si no es un entero.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		badRequest(c)
		return 0, false
	}
	return id, true
}
