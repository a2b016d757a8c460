package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"sanam/internal/cache"
	"sanam/internal/config"
	"sanam/internal/database"
	"sanam/internal/handlers"
	"sanam/internal/messaging"
	"sanam/internal/middleware"
	"sanam/internal/repository"
	"sanam/internal/service"
)

// Server представляет HTTP сервер API
type Server struct {
	router      *gin.Engine
	config      *config.Config
	db          *database.DB
	nats        *messaging.NATSClient
	cacheClient *cache.Client
	services    *service.Services
	repos       *repository.Repositories
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	cacheClient, err := cache.New(cfg.Redis, cfg.AvailabilityCacheTTL)
	if err != nil {
		// The cache is an optimization; run without it.
		log.Printf("Availability cache disabled: %v", err)
		cacheClient = nil
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, cacheClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:      router,
		config:      cfg,
		db:          db,
		nats:        natsClient,
		cacheClient: cacheClient,
		services:    services,
		repos:       repos,
	}

	server.setupRoutes()

	return server
}

// setupRoutes настраивает все API роуты
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.cacheClient)

	createLimiter := middleware.RateLimiter(
		rate.Limit(s.config.RateLimitRPS), s.config.RateLimitBurst)

	api := s.router.Group("/api")
	{
		bookings := api.Group("/bookings")
		{
			bookings.POST("", createLimiter, h.CreateBooking)
			bookings.GET("/available-dates", h.GetAvailableDates)
			bookings.GET("/user/:userId", h.GetUserBookings)
			bookings.PUT("/:id/confirm", h.ConfirmBooking)
			bookings.PUT("/:id/reset", h.ResetBooking)
			bookings.DELETE("/:id", h.CancelBooking)
		}

		stadiums := api.Group("/stadiums")
		{
			stadiums.POST("", h.CreateStadium)
			stadiums.GET("", h.ListStadiums)
			stadiums.GET("/:id", h.GetStadium)
			stadiums.GET("/:id/status", h.GetStadiumStatus)
			stadiums.GET("/:id/buildings", h.ListBuildings)
			stadiums.POST("/:id/buildings", h.CreateBuilding)
		}

		equipment := api.Group("/equipment")
		{
			equipment.POST("", h.CreateEquipment)
			equipment.GET("", h.ListEquipment)
			equipment.GET("/:id", h.GetEquipment)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// healthCheck обрабатывает health check запросы
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "sanam-api",
		"version": "1.0.0",
	})
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.cacheClient != nil {
		if err := s.cacheClient.Close(); err != nil {
			log.Printf("Error closing cache connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
