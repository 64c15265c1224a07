package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/rajveergoudxd/VextraLabs/internal/config"
	"github.com/rajveergoudxd/VextraLabs/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	storageSvc := storage.NewStorageService(db, rdb)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands:")
		fmt.Println("  deactivate <userID>            Deactivate a user account")
		fmt.Println("  participants <conversationID>  List a conversation's participants")
		fmt.Println("  online-mirror                  Show the Redis presence mirror")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "deactivate":
		if len(os.Args) < 3 {
			log.Fatal("Usage: admin deactivate <userID>")
		}
		id, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			log.Fatalf("invalid user id: %v", err)
		}
		if err := storageSvc.DeactivateUser(uint(id)); err != nil {
			log.Fatalf("failed to deactivate user %d: %v", id, err)
		}
		fmt.Printf("User %d deactivated.\n", id)

	case "participants":
		if len(os.Args) < 3 {
			log.Fatal("Usage: admin participants <conversationID>")
		}
		id, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			log.Fatalf("invalid conversation id: %v", err)
		}
		ids, err := storageSvc.GetParticipantIDs(uint(id))
		if err != nil {
			log.Fatalf("failed to load participants: %v", err)
		}
		fmt.Printf("Conversation %d has %d participants:\n", id, len(ids))
		for _, userID := range ids {
			fmt.Printf("  user %d\n", userID)
		}

	case "online-mirror":
		ids, err := storageSvc.GetMirroredOnlineIDs()
		if err != nil {
			log.Fatalf("failed to read presence mirror: %v", err)
		}
		fmt.Printf("%d users in the presence mirror:\n", len(ids))
		for _, id := range ids {
			fmt.Printf("  user %s\n", id)
		}

	default:
		log.Fatalf("unknown command: %s", command)
	}
}
