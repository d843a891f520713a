package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	pricingapp "stayhub/internal/app/handlers/pricing"
)

type PricingHandler struct {
	Commands commands.Bus
}

type priceAssignmentRequest struct {
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	PriceCents int64     `json:"price_cents"`
}

type adjustPricesRequest struct {
	Assignments []priceAssignmentRequest `json:"assignments"`
}

func (h PricingHandler) Adjust(c *gin.Context) {
	user, ok := requireRole(c, "host")
	if !ok {
		return
	}
	var req adjustPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Assignments) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one assignment is required"})
		return
	}
	cmd := pricingapp.AdjustPricesCommand{
		UnitID: c.Param("id"),
		HostID: user.ID,
	}
	for _, a := range req.Assignments {
		cmd.Assignments = append(cmd.Assignments, pricingapp.AssignmentInput{
			From:       a.From,
			To:         a.To,
			PriceCents: a.PriceCents,
		})
	}
	result, err := commands.Dispatch[pricingapp.AdjustPricesCommand, *pricingapp.AdjustPricesResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
