package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	unitsapp "stayhub/internal/app/handlers/units"
	"stayhub/internal/app/queries"
)

type UnitHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type unitRequest struct {
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	MinGuests int      `json:"min_guests"`
	MaxGuests int      `json:"max_guests"`
	Tags      []string `json:"tags"`
	Basis     string   `json:"price_basis"`
}

func (h UnitHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, "host")
	if !ok {
		return
	}
	var req unitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := unitsapp.CreateUnitCommand{
		CommandID: generateCommandID(),
		HostID:    user.ID,
		Name:      req.Name,
		Location:  req.Location,
		MinGuests: req.MinGuests,
		MaxGuests: req.MaxGuests,
		Tags:      req.Tags,
		Basis:     req.Basis,
	}
	result, err := commands.Dispatch[unitsapp.CreateUnitCommand, *unitsapp.CreateUnitResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h UnitHandler) Get(c *gin.Context) {
	q := unitsapp.GetUnitQuery{UnitID: c.Param("id")}
	result, err := queries.Ask[unitsapp.GetUnitQuery, dto.UnitSummary](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h UnitHandler) List(c *gin.Context) {
	result, err := queries.Ask[unitsapp.ListUnitsQuery, []dto.UnitSummary](c.Request.Context(), h.Queries, unitsapp.ListUnitsQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": result, "total": len(result)})
}

func (h UnitHandler) Update(c *gin.Context) {
	user, ok := requireRole(c, "host")
	if !ok {
		return
	}
	var req unitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := unitsapp.UpdateUnitCommand{
		UnitID:    c.Param("id"),
		HostID:    user.ID,
		Name:      req.Name,
		Location:  req.Location,
		MinGuests: req.MinGuests,
		MaxGuests: req.MaxGuests,
		Tags:      req.Tags,
		Basis:     req.Basis,
	}
	result, err := commands.Dispatch[unitsapp.UpdateUnitCommand, *dto.UnitSummary](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h UnitHandler) Delete(c *gin.Context) {
	user, ok := requireRole(c, "host")
	if !ok {
		return
	}
	cmd := unitsapp.DeleteUnitCommand{UnitID: c.Param("id"), HostID: user.ID}
	if _, err := commands.Dispatch[unitsapp.DeleteUnitCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h UnitHandler) HostList(c *gin.Context) {
	user, ok := requireRole(c, "host")
	if !ok {
		return
	}
	q := unitsapp.ListHostUnitsQuery{HostID: user.ID}
	result, err := queries.Ask[unitsapp.ListHostUnitsQuery, []dto.UnitSummary](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": result, "total": len(result)})
}

func (h UnitHandler) DeleteHostUnits(c *gin.Context) {
	user, ok := requireRole(c, "host")
	if !ok {
		return
	}
	cmd := unitsapp.DeleteHostUnitsCommand{HostID: user.ID}
	result, err := commands.Dispatch[unitsapp.DeleteHostUnitsCommand, *unitsapp.DeleteHostUnitsResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h UnitHandler) UploadPhoto(c *gin.Context) {
	user, ok := requireRole(c, "host")
	if !ok {
		return
	}
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo form file is required"})
		return
	}
	defer file.Close()

	unitID := c.Param("id")
	cmd := unitsapp.UploadUnitPhotoCommand{
		HostID:      user.ID,
		UnitID:      unitID,
		ObjectKey:   unitID + "/" + uuid.NewString() + "-" + header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
	}
	result, err := commands.Dispatch[unitsapp.UploadUnitPhotoCommand, *dto.UnitPhotoUploadResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func generateCommandID() string {
	return uuid.NewString()
}
