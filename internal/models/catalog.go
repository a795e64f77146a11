package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog item. Name is unique. ImageURL is either a public
// object-storage URL or a base64 data URL when storage is unconfigured.
type Product struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description,omitempty" json:"description"`
	Price       float64             `bson:"price" json:"price"`
	Stock       int                 `bson:"stock" json:"stock"`
	ImageURL    string              `bson:"image_url,omitempty" json:"image_url"`
	CategoryID  *primitive.ObjectID `bson:"category_id,omitempty" json:"category_id"`
}

// Category groups products. Name is unique.
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description"`
	Icon        string             `bson:"icon,omitempty" json:"icon"`
}
