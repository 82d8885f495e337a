package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/slot-booker/internal/activity"
	"github.com/nekogravitycat/slot-booker/internal/api"
	"github.com/nekogravitycat/slot-booker/internal/auth"
	"github.com/nekogravitycat/slot-booker/internal/booking"
	"github.com/nekogravitycat/slot-booker/internal/config"
	"github.com/nekogravitycat/slot-booker/internal/site"
	"github.com/nekogravitycat/slot-booker/internal/workflow"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	Settings *config.Config
	Logger   *zap.Logger
	// Authenticator overrides the live site client, mainly for tests.
	Authenticator site.Authenticator
	// Now overrides the wall clock.
	Now func() time.Time
}

// Container holds the initialized components that are needed externally.
type Container struct {
	ActivityService activity.Service
	BookingService  booking.Service
	WorkflowService workflow.Service
	// JWTManager is nil when no API secret is configured.
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	settings := cfg.Settings
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Site client
	authn := cfg.Authenticator
	if authn == nil {
		authn = site.NewClient(site.Config{
			BaseURL:           settings.Site.BaseURL,
			Email:             settings.Site.Email,
			Password:          settings.Site.Password,
			UserAgent:         settings.Site.UserAgent,
			Timeout:           settings.Site.Timeout,
			RequestsPerSecond: settings.Site.RequestsPerSecond,
			CacheSize:         settings.Site.CacheSize,
		}, logger)
	}

	// Modules
	activityService := activity.NewService(authn, logger)
	bookingService := booking.NewService(authn, cfg.Now, settings.Location(), logger)
	workflowService := workflow.NewService(bookingService, workflow.ClubPolicy{
		ActivityID:         settings.Club.ActivityID,
		OddWeekLocationID:  settings.Club.OddWeekLocationID,
		EvenWeekLocationID: settings.Club.EvenWeekLocationID,
		DaysAhead:          settings.Club.DaysAhead,
	}, logger)

	c := &Container{
		ActivityService: activityService,
		BookingService:  bookingService,
		WorkflowService: workflowService,
	}
	if settings.HTTP.JWTSecret != "" {
		c.JWTManager = auth.NewJWTManager(settings.HTTP.JWTSecret, settings.HTTP.JWTTTL)
	}
	return c
}

// Router builds the API router over the container's services.
func (c *Container) Router(settings *config.Config, logger *zap.Logger) (*gin.Engine, error) {
	return api.NewRouter(api.Config{
		IsProduction:    settings.IsProduction,
		ProdOrigins:     settings.HTTP.Origins(),
		RateLimit:       settings.HTTP.RateLimit,
		Logger:          logger,
		ActivityService: c.ActivityService,
		BookingService:  c.BookingService,
		WorkflowService: c.WorkflowService,
		JWTManager:      c.JWTManager,
	})
}
