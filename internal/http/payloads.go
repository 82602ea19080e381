package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"yoga-api/internal/domain"
	"yoga-api/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type signupRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

func (r signupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(1, 50), is.Email),
		validation.Field(&r.FirstName, validation.Required, validation.Length(3, 20)),
		validation.Field(&r.LastName, validation.Required, validation.Length(3, 20)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 40)),
	)
}

func (r signupRequest) toInput() service.RegisterInput {
	return service.RegisterInput{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Password:  r.Password,
	}
}

type sessionRequest struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	TeacherID   *int64    `json:"teacher_id"`
	Description string    `json:"description"`
	Users       []int64   `json:"users"`
}

func (r sessionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Date, validation.Required),
		validation.Field(&r.TeacherID, validation.Required),
		validation.Field(&r.Description, validation.Required, validation.Length(1, 2500)),
		validation.Field(&r.Users, validation.By(positiveIDs)),
	)
}

func (r sessionRequest) toDomain() domain.Session {
	users := r.Users
	if users == nil {
		users = []int64{}
	}
	return domain.Session{
		Name:        r.Name,
		Date:        r.Date,
		TeacherID:   r.TeacherID,
		Description: r.Description,
		Users:       users,
	}
}

func positiveIDs(value interface{}) error {
	ids, _ := value.([]int64)
	for _, id := range ids {
		if id <= 0 {
			return errors.New("must contain positive ids")
		}
	}
	return nil
}

type validatable interface {
	Validate() error
}

// bindAndValidate decodifica el body y aplica las reglas del payload.
// Responde 400 y devuelve false si algo falla.
func bindAndValidate(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c)
		return false
	}
	if err := req.Validate(); err != nil {
		var fields validation.Errors
		if errors.As(err, &fields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": fields})
			return false
		}
		badRequest(c)
		return false
	}
	return true
}
