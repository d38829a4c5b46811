package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/mpavic/ripple/internal/config"
	"github.com/mpavic/ripple/internal/database"
	postgresrepo "github.com/mpavic/ripple/internal/repository/postgres"
	"github.com/mpavic/ripple/internal/service"
	"github.com/mpavic/ripple/internal/storage"
	"github.com/mpavic/ripple/internal/transport/http/handlers"
	"github.com/mpavic/ripple/internal/transport/http/middleware"
	"github.com/mpavic/ripple/internal/transport/ws"
)

func main() {
	cfg := config.Load()

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	if err := database.Migrate(pool, "schema.sql"); err != nil {
		log.Fatal(err)
	}
	log.Println("Connected to database")

	// Blob store for uploaded images
	blobs, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatal(err)
	}

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	postRepo := postgresrepo.NewPostRepo(pool)

	// Services
	issuer := service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, issuer, cfg.StoreTimeout)
	postService := service.NewPostService(postRepo, userRepo, cfg.StoreTimeout)

	// Real-time feed events
	hub := ws.NewHub()
	go hub.Run()
	postService.SetNotifier(ws.NewFeedNotifier(hub))

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, blobs)
	postHandler := handlers.NewPostHandler(postService, blobs)

	// Auth middleware
	auth := middleware.Auth(issuer)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.UploadDir))))

	// Protected - Posts
	mux.Handle("POST /posts", auth(http.HandlerFunc(postHandler.Create)))
	mux.Handle("GET /posts", auth(http.HandlerFunc(postHandler.Feed)))
	mux.Handle("GET /posts/{userId}", auth(http.HandlerFunc(postHandler.ByAuthor)))
	mux.Handle("PATCH /posts/{id}/like", auth(http.HandlerFunc(postHandler.ToggleLike)))
	mux.Handle("POST /posts/{id}/comment", auth(http.HandlerFunc(postHandler.AddComment)))

	// Live feed events
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, issuer))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("Starting server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, middleware.CORS(cfg.AllowedOrigin, mux)))
}
