package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	storage "mailauth/internal/storage/mongo"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	uri := flag.String("uri", os.Getenv("MONGODB_URI"), "document store connection string")
	dbName := flag.String("db", os.Getenv("MONGODB_DB"), "database name")
	flag.Parse()

	if *uri == "" {
		log.Fatal("connection string required via flag -uri or MONGODB_URI env")
	}
	if *dbName == "" {
		*dbName = "mailauth"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(*uri))
	if err != nil {
		log.Fatalf("could not connect: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("could not ping document store: %v", err)
	}

	if err := storage.EnsureIndexes(ctx, client.Database(*dbName)); err != nil {
		log.Fatalf("could not ensure indexes: %v", err)
	}

	fmt.Println("Indexes ensured!")
}
