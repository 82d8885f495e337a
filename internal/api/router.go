package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/slot-booker/internal/activity"
	actHttp "github.com/nekogravitycat/slot-booker/internal/activity/http"
	"github.com/nekogravitycat/slot-booker/internal/auth"
	"github.com/nekogravitycat/slot-booker/internal/booking"
	bookingHttp "github.com/nekogravitycat/slot-booker/internal/booking/http"
	"github.com/nekogravitycat/slot-booker/internal/workflow"
	wfHttp "github.com/nekogravitycat/slot-booker/internal/workflow/http"
)

// Config holds everything the router needs.
type Config struct {
	IsProduction    bool
	ProdOrigins     []string
	RateLimit       string
	Logger          *zap.Logger
	ActivityService activity.Service
	BookingService  booking.Service
	WorkflowService workflow.Service
	JWTManager      *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) (*gin.Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()

	// Global Middleware:
	// - RequestLogger: Logs request information through zap.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestLogger(logger), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	config := cors.DefaultConfig()
	if cfg.IsProduction {
		config.AllowOrigins = cfg.ProdOrigins
	} else {
		config.AllowOrigins = []string{
			"http://localhost:8081", // Swagger
		}
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	config.MaxAge = 12 * time.Hour
	if len(config.AllowOrigins) > 0 {
		r.Use(cors.New(config))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rateLimit, err := RateLimiter(cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	actHandler := actHttp.NewHandler(cfg.ActivityService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	wfHandler := wfHttp.NewHandler(cfg.WorkflowService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	v1.Use(rateLimit)
	{
		actHttp.RegisterRoutes(v1, actHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		wfHttp.RegisterRoutes(v1, wfHandler, authMiddleware)
	}

	return r, nil
}
