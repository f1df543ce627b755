package router

import (
	"focushub/internal/microservices/http-api/handler"
	"focushub/internal/microservices/http-api/middleware"
	"focushub/internal/microservices/http-api/repository"
	"focushub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Ratings       service.RatingService
	Posts         service.PostService
	Comments      service.CommentService
	Notifications service.NotificationService
	Profiles      service.UserService

	Users     repository.UserRepository
	JWTSecret []byte

	// RateLimiter guards rating writes. Nil disables limiting.
	RateLimiter *middleware.RateLimiter
	Health      *handler.HealthHandler
}

// New builds the gin engine with global middleware and all routes.
func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if d.Health != nil {
		r.GET("/health", d.Health.Health)
	}

	public := r.Group("/api")
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(d.JWTSecret, d.Users))

	var writes []gin.HandlerFunc
	if d.RateLimiter != nil {
		writes = append(writes, d.RateLimiter.Handler())
	}

	handler.NewRatingHandler(d.Ratings).RegisterRoutes(public, protected, writes...)
	handler.NewPostHandler(d.Posts).RegisterRoutes(public, protected)
	handler.NewCommentHandler(d.Comments).RegisterRoutes(protected)
	handler.NewNotificationHandler(d.Notifications).RegisterRoutes(protected)
	handler.NewUserHandler(d.Profiles).RegisterRoutes(protected)

	return r
}
