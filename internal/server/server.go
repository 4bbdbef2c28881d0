package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hollyvane/blog-backend/internal/database"
	"github.com/hollyvane/blog-backend/internal/handlers"
	"github.com/hollyvane/blog-backend/internal/middleware"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	db := database.New()
	handler := handlers.NewHandler(db.GetDB())

	newServer := &Server{
		db:      db,
		handler: handler,
	}

	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// NewRouter wires the route table for an already-constructed handler set.
func NewRouter(handler *handlers.Handler, healthFn func() map[string]string) *gin.Engine {
	r := gin.Default()

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:1313"
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, healthFn())
	})

	api := r.Group("/api")
	{
		// Auth routes
		api.GET("/auth/github", handler.Auth.Login)
		api.GET("/auth/callback", handler.Auth.Callback)
		api.GET("/auth/me", middleware.AuthMiddleware(), handler.Auth.Me)

		// Public reads
		api.GET("/comments", handler.Comment.GetComments)
		api.GET("/votes", middleware.OptionalAuthMiddleware(), handler.Vote.GetVotes)
		api.GET("/github-stats", handler.Stats.GetStats)
		api.GET("/forum/categories", handler.Forum.GetCategories)
		api.GET("/forum/threads", handler.Forum.GetThreads)
		api.GET("/forum/threads/:id", handler.Forum.GetThread)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/comments", handler.Comment.CreateComment)
			protected.DELETE("/comments/:id", handler.Comment.DeleteComment)
			protected.POST("/votes", handler.Vote.CastVote)
			protected.POST("/forum/threads", handler.Forum.CreateThread)
			protected.POST("/forum/threads/:id/replies", handler.Forum.CreateReply)
		}
	}

	return r
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	return NewRouter(s.handler, s.db.Health)
}
