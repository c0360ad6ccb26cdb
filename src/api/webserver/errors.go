package webserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stake-plus/ideograph/src/logging"
)

// respondError maps the error taxonomy onto HTTP statuses and always
// logs before writing; no error crosses the response boundary unlogged.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, logging.ErrValidation), errors.Is(err, logging.ErrState):
		status = http.StatusBadRequest
	case errors.Is(err, logging.ErrNotFound):
		status = http.StatusNotFound
	}

	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(status, gin.H{"error": http.StatusText(status), "details": err.Error()})
}
