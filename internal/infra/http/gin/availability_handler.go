package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/dto"
	availabilityapp "stayhub/internal/app/handlers/availability"
	"stayhub/internal/app/queries"
)

type AvailabilityHandler struct {
	Queries queries.Bus
}

func (h AvailabilityHandler) MonthView(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year query parameter is required"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month query parameter is required"})
		return
	}
	q := availabilityapp.MonthViewQuery{
		UnitID: c.Param("id"),
		Year:   year,
		Month:  month,
	}
	result, err := queries.Ask[availabilityapp.MonthViewQuery, *dto.MonthView](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
