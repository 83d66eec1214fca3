package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/gantry/internal/progress"
	"github.com/zulandar/gantry/internal/tasks"
)

// response is the envelope every endpoint returns.
type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, response{Success: true, Data: data})
}

func respondMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, response{Success: true, Data: data, Message: message})
}

// respondErr maps the error taxonomy onto HTTP statuses: missing rows to
// 404, structural violations to 409, bad input to 400, the rest to 500.
// Internal detail is not exposed beyond the error message itself.
func respondErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, tasks.ErrTaskNotFound), errors.Is(err, progress.ErrProjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, tasks.ErrHasChildren), errors.Is(err, progress.ErrCycle):
		status = http.StatusConflict
	}
	c.JSON(status, response{Success: false, Message: err.Error()})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, response{Success: false, Message: message})
}

// actingUser reads the authenticated user id injected by the auth proxy in
// the X-User-ID header. Authentication itself is external to this service.
func actingUser(c *gin.Context) (uint, bool) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		c.JSON(http.StatusUnauthorized, response{Success: false, Message: "missing X-User-ID"})
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusUnauthorized, response{Success: false, Message: "invalid X-User-ID"})
		return 0, false
	}
	return uint(id), true
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
