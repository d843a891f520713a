package ginserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/dto"
	searchapp "stayhub/internal/app/handlers/search"
	"stayhub/internal/app/queries"
	domainunits "stayhub/internal/domain/units"
)

type SearchHandler struct {
	Queries queries.Bus
}

// Search composes filters from query parameters: name, location, tags
// (comma-separated), guests, price_type (PER_UNIT or PER_GUEST), from/to
// (YYYY-MM-DD) and price_from/price_to in cents. The caller's identity, when
// present, exempts their own holds from availability filtering.
func (h SearchHandler) Search(c *gin.Context) {
	q := searchapp.SearchUnitsQuery{
		Name:     c.Query("name"),
		Location: c.Query("location"),
	}
	if tags := strings.TrimSpace(c.Query("tags")); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				q.Tags = append(q.Tags, tag)
			}
		}
	}
	if raw := c.Query("guests"); raw != "" {
		guests, err := strconv.Atoi(raw)
		if err != nil || guests <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guests must be a positive integer"})
			return
		}
		q.Guests = guests
	}
	if raw := c.Query("price_type"); raw != "" {
		basis, err := domainunits.ParseBasis(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price_type must be PER_UNIT or PER_GUEST"})
			return
		}
		q.Basis = basis
	}
	from, ok := parseDateParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "to")
	if !ok {
		return
	}
	q.From, q.To = from, to
	if q.FromCents, ok = parseCentsParam(c, "price_from"); !ok {
		return
	}
	if q.ToCents, ok = parseCentsParam(c, "price_to"); !ok {
		return
	}
	if p, ok := currentPrincipal(c); ok {
		q.Requester = p.ID
	}

	result, err := queries.Ask[searchapp.SearchUnitsQuery, *dto.SearchResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseDateParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a YYYY-MM-DD date"})
		return time.Time{}, false
	}
	return t, true
}

func parseCentsParam(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	cents, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || cents < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a non-negative integer"})
		return nil, false
	}
	return &cents, true
}
