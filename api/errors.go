package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/tourledger/internal/service/auth"
	"github.com/Domenick1991/tourledger/internal/service/ledger"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(requestIDKey),
		}).Error("request failed")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
