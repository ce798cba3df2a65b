package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/Domenick1991/tourledger/internal/export"
	"github.com/Domenick1991/tourledger/internal/finance"
	"github.com/Domenick1991/tourledger/internal/service/ledger"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type StatsHandler struct {
	service ledger.LedgerUseCase
	now     func() time.Time
}

type formattedStats struct {
	TotalRevenue string `json:"totalRevenue"`
	TotalCost    string `json:"totalCost"`
	TotalProfit  string `json:"totalProfit"`
	TotalPaid    string `json:"totalPaid"`
}

type monthlyResponse struct {
	Month        int                  `json:"month"`
	Year         int                  `json:"year"`
	Basis        string               `json:"basis"`
	Stats        finance.Stats        `json:"stats"`
	Count        int                  `json:"count"`
	Formatted    formattedStats       `json:"formatted"`
	Reservations []domain.Reservation `json:"reservations"`
}

func NewStatsHandler(service ledger.LedgerUseCase) *StatsHandler {
	return &StatsHandler{service: service, now: time.Now}
}

func (h *StatsHandler) Register(router *gin.RouterGroup) {
	router.GET("/monthly", h.monthly)
	router.GET("/monthly/export", h.export)
}

func (h *StatsHandler) monthly(c *gin.Context) {
	month, year, err := h.period(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	basis := ledger.Basis(c.DefaultQuery("basis", string(ledger.BasisCreated)))

	report, err := h.service.MonthlyReport(c.Request.Context(), month, year, basis)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, monthlyResponse{
		Month: month,
		Year:  year,
		Basis: string(basis),
		Stats: report.Stats,
		Count: report.Count,
		Formatted: formattedStats{
			TotalRevenue: finance.FormatCurrency(report.Stats.TotalRevenue),
			TotalCost:    finance.FormatCurrency(report.Stats.TotalCost),
			TotalProfit:  finance.FormatCurrency(report.Stats.TotalProfit),
			TotalPaid:    finance.FormatCurrency(report.Stats.TotalPaid),
		},
		Reservations: report.Matched,
	})
}

func (h *StatsHandler) export(c *gin.Context) {
	month, year, err := h.period(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	basis := ledger.Basis(c.DefaultQuery("basis", string(ledger.BasisCreated)))

	report, err := h.service.MonthlyReport(c.Request.Context(), month, year, basis)
	if err != nil {
		writeError(c, err)
		return
	}
	if report.Count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reservations for this month"})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, report.Matched); err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(month, year)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// period reads month (0-11) and year, defaulting to the current UTC month.
func (h *StatsHandler) period(c *gin.Context) (int, int, error) {
	now := h.now().UTC()
	month := int(now.Month()) - 1
	year := now.Year()

	if raw := c.Query("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("month: %w", err)
		}
		month = m
	}
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("year: %w", err)
		}
		year = y
	}
	return month, year, nil
}
