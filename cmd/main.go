package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/rajveergoudxd/VextraLabs/internal/api/handler"
	"github.com/rajveergoudxd/VextraLabs/internal/auth"
	"github.com/rajveergoudxd/VextraLabs/internal/config"
	"github.com/rajveergoudxd/VextraLabs/internal/models"
	"github.com/rajveergoudxd/VextraLabs/internal/realtime"
	"github.com/rajveergoudxd/VextraLabs/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Vextra Backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, rdb := setupDependencies(cfg)
	store := storage.NewStorageService(db, rdb)

	rooms := realtime.NewRoomRegistry()
	presence := realtime.NewPresenceRegistry(store)
	gate := auth.NewGate(cfg.JWTSecret, config.TokenTTL)

	r := gin.Default()
	h := handler.NewHandler(rooms, presence, store, gate)

	r.GET("/api/v1/ws/chat/:conversation_id", h.ServeChatWS)
	r.GET("/api/v1/presence/ws", h.ServePresenceWS)
	r.GET("/api/v1/presence/following/online", h.GetOnlineFollowing)

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
