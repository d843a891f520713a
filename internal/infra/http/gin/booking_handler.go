package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	bookingapp "stayhub/internal/app/handlers/booking"
	"stayhub/internal/app/queries"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createBookingRequest struct {
	UnitID string    `json:"unit_id"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
	Guests int       `json:"guests"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, "guest")
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.RequestBookingCommand{
		CommandID: generateCommandID(),
		UnitID:    req.UnitID,
		GuestID:   user.ID,
		From:      req.From,
		To:        req.To,
		Guests:    req.Guests,
	}
	result, err := commands.Dispatch[bookingapp.RequestBookingCommand, *dto.BookingView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	if _, ok := requireRole(c, ""); !ok {
		return
	}
	q := bookingapp.GetBookingQuery{BookingID: c.Param("id")}
	result, err := queries.Ask[bookingapp.GetBookingQuery, *dto.BookingView](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h BookingHandler) SetStatus(c *gin.Context) {
	user, ok := requireRole(c, "host")
	if !ok {
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.SetBookingStatusCommand{
		BookingID: c.Param("id"),
		HostID:    user.ID,
		Status:    req.Status,
	}
	result, err := commands.Dispatch[bookingapp.SetBookingStatusCommand, *dto.BookingView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Cancel(c *gin.Context) {
	user, ok := requireRole(c, "guest")
	if !ok {
		return
	}
	cmd := bookingapp.CancelBookingCommand{BookingID: c.Param("id"), GuestID: user.ID}
	if _, err := commands.Dispatch[bookingapp.CancelBookingCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h BookingHandler) ListMine(c *gin.Context) {
	user, ok := requireRole(c, "guest")
	if !ok {
		return
	}
	q := bookingapp.ListGuestBookingsQuery{GuestID: user.ID}
	result, err := queries.Ask[bookingapp.ListGuestBookingsQuery, []dto.BookingView](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": result, "total": len(result)})
}

func (h BookingHandler) ListHost(c *gin.Context) {
	user, ok := requireRole(c, "host")
	if !ok {
		return
	}
	q := bookingapp.ListHostBookingsQuery{HostID: user.ID}
	result, err := queries.Ask[bookingapp.ListHostBookingsQuery, []dto.BookingView](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": result, "total": len(result)})
}
