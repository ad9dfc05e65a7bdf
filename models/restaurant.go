package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Restaurant is a storefront listing with its embedded menu, stored as a
// single MongoDB document.
type Restaurant struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Cuisine         string             `bson:"cuisine" json:"cuisine"`
	Rating          float64            `bson:"rating" json:"rating"`
	DeliveryMinutes int                `bson:"delivery_minutes" json:"delivery_minutes"`
	ImageURL        string             `bson:"image_url" json:"image_url"`
	Categories      []string           `bson:"categories" json:"categories"`
	Menu            []MenuItem         `bson:"menu" json:"menu"`
}

// MenuItem is a dish on a restaurant menu. Shelf life and sustainability
// feed the waste-reduction features; they are part of the catalog document.
type MenuItem struct {
	ID                  string       `bson:"id" json:"id"`
	Name                string       `bson:"name" json:"name"`
	Description         string       `bson:"description" json:"description"`
	Price               float64      `bson:"price" json:"price"`
	Veg                 bool         `bson:"veg" json:"veg"`
	PopularityScore     float64      `bson:"popularity_score" json:"popularity_score"`
	ShelfLifeHours      float64      `bson:"shelf_life_hours" json:"shelf_life_hours"`
	SustainabilityScore float64      `bson:"sustainability_score" json:"sustainability_score"`
	Ingredients         []Ingredient `bson:"ingredients" json:"ingredients"`
}

// Ingredient carries both the recipe quantity and the restaurant's stock
// position, so the catalog alone is enough to run the inventory formulas.
type Ingredient struct {
	ID                  string  `bson:"id" json:"id"`
	Name                string  `bson:"name" json:"name"`
	Quantity            float64 `bson:"quantity" json:"quantity"`
	Unit                string  `bson:"unit" json:"unit"`
	ShelfLifeHours      float64 `bson:"shelf_life_hours" json:"shelf_life_hours"`
	CurrentStock        float64 `bson:"current_stock" json:"current_stock"`
	ReorderPoint        float64 `bson:"reorder_point" json:"reorder_point"`
	SustainabilityScore float64 `bson:"sustainability_score" json:"sustainability_score"`
}
