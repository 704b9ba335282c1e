package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens a Mongo client using the MONGODB_URL environment variable.
func Connect(ctx context.Context) (*mongo.Client, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	uri := os.Getenv("MONGODB_URL")
	if uri == "" {
		return nil, fmt.Errorf("MONGODB_URL is not set")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	log.Info().Msg("connected to mongodb")
	return client, nil
}

// OpenCollection returns a handle to a collection in the configured database.
func OpenCollection(client *mongo.Client, collectionName string) *mongo.Collection {
	databaseName := os.Getenv("DATABASE_NAME")
	if databaseName == "" {
		databaseName = "livepoll"
	}
	return client.Database(databaseName).Collection(collectionName)
}
