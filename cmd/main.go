package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"livepoll/database"
	"livepoll/internal/handlers"
	"livepoll/internal/polls"
	"livepoll/internal/realtime"
)

func main() {
	godotenv.Load(".env")
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Mongo when configured, in-memory otherwise. The memory store loses
	// everything on restart; it exists for local development.
	var store polls.Store
	if os.Getenv("MONGODB_URL") != "" {
		client, err := database.Connect(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer client.Disconnect(context.Background())
		store = polls.NewMongoStore(database.OpenCollection(client, "poll"))
	} else {
		log.Warn().Msg("MONGODB_URL not set, using in-memory poll store")
		store = polls.NewMemStore()
	}

	hub := realtime.NewHub(store)
	go hub.Run(ctx)

	pollHandler := handlers.NewPollHandler(store)
	authHandler := handlers.NewAuthHandler()

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Post("/teacher-login", authHandler.TeacherLogin)
	r.Post("/teacher-verify", authHandler.VerifyTeacherToken)

	// Poll routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/", pollHandler.CreatePoll)
		r.Post("/vote", pollHandler.Vote)
		r.Get("/poll/{id}", pollHandler.PollByID)
		r.Get("/polls/{username}", pollHandler.PollHistory)
		r.Get("/{username}", pollHandler.PollsByOwner)
	})

	r.Get("/ws", hub.ServeWS)
	r.Get("/ws/stats", hub.Stats)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Backend is Running"))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("port", port).Msg("server is running")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server closed unexpectedly")
	}
	log.Info().Msg("server closed")
}

func allowedOrigins() []string {
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		return strings.Split(origins, ",")
	}
	return []string{"*"}
}
