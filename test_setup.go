package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/birimengo/mytrade-api/internal/pkg/callmebot"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	// Test MongoDB
	fmt.Println("Testing MongoDB connection...")
	mongoURI := os.Getenv("MONGO_URI")
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("MongoDB connection failed:", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(context.Background(), nil); err != nil {
		log.Fatal("MongoDB ping failed:", err)
	}
	fmt.Println("✅ MongoDB connected successfully!")

	// Test CallMeBot gateway
	fmt.Println("\nTesting CallMeBot gateway...")
	baseURL := os.Getenv("CALLMEBOT_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.callmebot.com"
	}

	gateway := callmebot.New(baseURL)
	if err := gateway.Status(context.Background()); err != nil {
		log.Fatal("CallMeBot gateway unreachable:", err)
	}
	fmt.Println("✅ CallMeBot gateway reachable!")

	fmt.Println("\n🎉 All systems ready! Set REMINDER_INTERVAL and start the API.")
}
