package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperr "sanam/internal/errors"
	"sanam/internal/middleware"
	"sanam/internal/models"
)

// Bookings handlers

// CreateBooking - POST /api/bookings
// Создать бронирование
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.services.Bookings.Create(c.Request.Context(), &req)
	if err != nil {
		middleware.CountBookingOperation("create", "rejected")
		respondError(c, err)
		return
	}

	middleware.CountBookingOperation("create", "ok")
	c.JSON(http.StatusCreated, booking)
}

// ConfirmBooking - PUT /api/bookings/:id/confirm
// Подтвердить бронирование
func (h *Handlers) ConfirmBooking(c *gin.Context) {
	booking, err := h.services.Bookings.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.CountBookingOperation("confirm", "rejected")
		respondError(c, err)
		return
	}

	middleware.CountBookingOperation("confirm", "ok")
	c.JSON(http.StatusOK, booking)
}

// CancelBooking - DELETE /api/bookings/:id
// Отменить бронирование; причина приходит в теле запроса
func (h *Handlers) CancelBooking(c *gin.Context) {
	var req models.CancelBookingRequest
	// An empty body is fine; the reason defaults to "".
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.services.Bookings.Cancel(c.Request.Context(), c.Param("id"), req.CancelReason)
	if err != nil {
		middleware.CountBookingOperation("cancel", "rejected")
		respondError(c, err)
		return
	}

	middleware.CountBookingOperation("cancel", "ok")
	c.JSON(http.StatusOK, booking)
}

// ResetBooking - PUT /api/bookings/:id/reset
// Принять возврат стадиона и инвентаря
func (h *Handlers) ResetBooking(c *gin.Context) {
	booking, err := h.services.Bookings.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.CountBookingOperation("reset", "rejected")
		respondError(c, err)
		return
	}

	middleware.CountBookingOperation("reset", "ok")
	c.JSON(http.StatusOK, booking)
}

// GetAvailableDates - GET /api/bookings/available-dates
// Помесячный календарь занятости стадиона
func (h *Handlers) GetAvailableDates(c *gin.Context) {
	stadiumID := c.Query("stadiumId")
	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))

	if stadiumID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stadiumId is required"})
		return
	}

	// Raw-JSON cache hit skips the database entirely.
	if h.cacheClient != nil {
		if raw, err := h.cacheClient.GetMonthRaw(c.Request.Context(), stadiumID, year, month); err == nil {
			c.Data(http.StatusOK, "application/json", raw)
			return
		}
	}

	response, err := h.services.Availability.MonthView(c.Request.Context(), stadiumID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cacheClient != nil {
		if raw, err := json.Marshal(response); err == nil {
			if err := h.cacheClient.SetMonthRaw(c.Request.Context(), stadiumID, year, month, raw); err != nil {
				slog.Warn("Failed to cache availability view", "error", err, "stadium_id", stadiumID)
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetUserBookings - GET /api/bookings/user/:userId
// Бронирования пользователя; ?include=equipment дополняет связанные данные
func (h *Handlers) GetUserBookings(c *gin.Context) {
	include := c.Query("include")
	includeRelated := include == "equipment" || include == "all"

	bookings, err := h.services.Bookings.GetByUser(c.Request.Context(), c.Param("userId"), includeRelated)
	if err != nil {
		respondError(c, err)
		return
	}

	if len(bookings) == 0 {
		respondError(c, apperr.E(apperr.KindBookingNotFound, "no bookings found for user"))
		return
	}

	c.JSON(http.StatusOK, bookings)
}
