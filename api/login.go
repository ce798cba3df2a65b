package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/tourledger/internal/service/auth"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type LoginHandler struct {
	service auth.AuthUseCase
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

func NewLoginHandler(service auth.AuthUseCase) *LoginHandler {
	return &LoginHandler{service: service}
}

func (h *LoginHandler) Register(router *gin.RouterGroup) {
	router.POST("/login", h.login)
}

func (h *LoginHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		log.WithField("username", req.Username).Warn("login rejected")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
	})
}
