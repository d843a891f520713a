package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	bookingapp "stayhub/internal/app/handlers/booking"
	pricingapp "stayhub/internal/app/handlers/pricing"
	searchapp "stayhub/internal/app/handlers/search"
	unitsapp "stayhub/internal/app/handlers/units"
	domainavailability "stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainpricing "stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/daterange"
	domainunits "stayhub/internal/domain/units"
)

// respondError maps domain errors onto HTTP statuses. Unknown errors become
// 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainunits.ErrNotFound),
		errors.Is(err, domainbooking.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainavailability.ErrConflict),
		errors.Is(err, pricingapp.ErrPriceLocked),
		errors.Is(err, domainbooking.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, unitsapp.ErrUnitNotOwned),
		errors.Is(err, bookingapp.ErrBookingNotOwned),
		errors.Is(err, bookingapp.ErrOwnUnit):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrUnpricedRange):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, searchapp.ErrUnderspecifiedQuery),
		errors.Is(err, domainpricing.ErrNegativePrice),
		errors.Is(err, domainunits.ErrNameRequired),
		errors.Is(err, domainunits.ErrLocationRequired),
		errors.Is(err, domainunits.ErrHostRequired),
		errors.Is(err, domainunits.ErrGuestsRange),
		errors.Is(err, domainunits.ErrInvalidBasis),
		errors.Is(err, domainbooking.ErrInvalidGuests),
		errors.Is(err, bookingapp.ErrGuestsNotAccommodated):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
