package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"stayhub/internal/infra/config"
	"stayhub/internal/infra/obs"
)

type UnitHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	HostList(c *gin.Context)
	DeleteHostUnits(c *gin.Context)
	UploadPhoto(c *gin.Context)
}

type PricingHTTP interface {
	Adjust(c *gin.Context)
}

type AvailabilityHTTP interface {
	MonthView(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	SetStatus(c *gin.Context)
	Cancel(c *gin.Context)
	ListMine(c *gin.Context)
	ListHost(c *gin.Context)
}

type SearchHTTP interface {
	Search(c *gin.Context)
}

type Handlers struct {
	Unit         UnitHTTP
	Pricing      PricingHTTP
	Availability AvailabilityHTTP
	Booking      BookingHTTP
	Search       SearchHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-User-ID", "X-User-Role"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	router.Use(IdentityMiddleware())

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Unit != nil {
		api.GET("/units", h.Unit.List)
		api.POST("/units", h.Unit.Create)
		api.GET("/units/:id", h.Unit.Get)
		api.PUT("/units/:id", h.Unit.Update)
		api.DELETE("/units/:id", h.Unit.Delete)
		api.POST("/units/:id/photos", h.Unit.UploadPhoto)
		api.GET("/host/units", h.Unit.HostList)
		api.DELETE("/host/units", h.Unit.DeleteHostUnits)
	}
	if h.Pricing != nil {
		api.PUT("/units/:id/prices", h.Pricing.Adjust)
	}
	if h.Availability != nil {
		api.GET("/units/:id/calendar", h.Availability.MonthView)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.GET("/bookings/:id", h.Booking.Get)
		api.PUT("/bookings/:id/status", h.Booking.SetStatus)
		api.DELETE("/bookings/:id", h.Booking.Cancel)
		api.GET("/me/bookings", h.Booking.ListMine)
		api.GET("/host/bookings", h.Booking.ListHost)
	}
	if h.Search != nil {
		api.GET("/search/units", h.Search.Search)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

var _ UnitHTTP = UnitHandler{}
var _ PricingHTTP = PricingHandler{}
var _ AvailabilityHTTP = AvailabilityHandler{}
var _ BookingHTTP = BookingHandler{}
var _ SearchHTTP = SearchHandler{}
