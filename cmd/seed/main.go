package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/crypto/bcrypt"
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

	seedUser(ctx, client.Database(*dbName))
}

func seedUser(ctx context.Context, db *mongo.Database) {
	email := "admin@mailauth.local"
	password := "password"

	if envEmail := os.Getenv("SEED_EMAIL"); envEmail != "" {
		email = envEmail
	}

	if envPass := os.Getenv("SEED_PASSWORD"); envPass != "" {
		password = envPass
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), 10)

	_, err := db.Collection("users").UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{
			"name":     "Admin",
			"password": string(hashed),
		}, "$setOnInsert": bson.M{
			"email":      email,
			"created_at": time.Now(),
		}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		log.Fatalf("Failed to seed user: %v", err)
	}

	fmt.Printf("User seeded!\n   User: %s\n   Pass: %s\n", email, password)
}
