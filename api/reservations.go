package api

import (
	"net/http"

	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/Domenick1991/tourledger/internal/service/ledger"
	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	service ledger.LedgerUseCase
}

func NewReservationHandler(service ledger.LedgerUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *ReservationHandler) list(c *gin.Context) {
	var (
		all []domain.Reservation
		err error
	)
	if q, ok := c.GetQuery("q"); ok {
		all, err = h.service.SearchReservations(c.Request.Context(), q)
	} else {
		all, err = h.service.ListReservations(c.Request.Context())
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, all)
}

func (h *ReservationHandler) get(c *gin.Context) {
	r, err := h.service.GetReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ReservationHandler) create(c *gin.Context) {
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateReservation(c.Request.Context(), req.patch())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ReservationHandler) update(c *gin.Context) {
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateReservation(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ReservationHandler) delete(c *gin.Context) {
	if err := h.service.DeleteReservation(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
