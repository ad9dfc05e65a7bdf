// Command seed-catalog loads restaurant documents from a JSON file into the
// Mongo catalog. Intended for local development and demo environments.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"storefront-service/database"
	"storefront-service/models"
	"storefront-service/repository"
)

func main() {
	var mongoURL, dbName, file string
	flag.StringVar(&mongoURL, "mongo", envOr("MONGO_URL", "mongodb://localhost:27017"), "MongoDB URL")
	flag.StringVar(&dbName, "db", envOr("MONGO_DB", "storefront"), "MongoDB database name")
	flag.StringVar(&file, "file", "restaurants.json", "JSON file with an array of restaurants")
	flag.Parse()

	payload, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("read %s: %v", file, err)
	}

	var restaurants []models.Restaurant
	if err := json.Unmarshal(payload, &restaurants); err != nil {
		log.Fatalf("parse %s: %v", file, err)
	}
	if len(restaurants) == 0 {
		log.Fatal("no restaurants in input file")
	}

	db, err := database.ConnectMongo(mongoURL, dbName)
	if err != nil {
		log.Fatalf("connect mongo: %v", err)
	}
	defer database.CloseMongo(db)

	repo := repository.NewMongoRestaurantRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	inserted := 0
	for i := range restaurants {
		if err := repo.Insert(ctx, &restaurants[i]); err != nil {
			log.Printf("skip %q: %v", restaurants[i].Name, err)
			continue
		}
		inserted++
	}
	log.Printf("seeded %d/%d restaurants into %s", inserted, len(restaurants), dbName)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
