package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"yoga-api/internal/service"
)

type TeacherHandler struct {
	logger     *zap.Logger
	teacherSvc *service.TeacherService
}

func NewTeacherHandler(logger *zap.Logger, teacherSvc *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{logger: logger, teacherSvc: teacherSvc}
}

// FindAll maneja GET /api/teacher.
func (h *TeacherHandler) FindAll(c *gin.Context) {
	teachers, err := h.teacherSvc.FindAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, "list teachers", err)
		return
	}
	c.JSON(http.StatusOK, teachers)
}

// FindByID maneja GET /api/teacher/:id.
func (h *TeacherHandler) FindByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	teacher, err := h.teacherSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, "get teacher", err)
		return
	}
	c.JSON(http.StatusOK, teacher)
}
