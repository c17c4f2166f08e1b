package validators

import "go.mongodb.org/mongo-driver/bson"

var TourValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name", "summary", "description", "category", "difficulty",
			"price", "duration", "max_group_size", "ratings_average", "ratings_quantity",
			"is_active", "created_at",
		},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":         bson.M{"bsonType": "objectId"},
			"name":        bson.M{"bsonType": "string", "minLength": 3, "maxLength": 100},
			"summary":     bson.M{"bsonType": "string"},
			"description": bson.M{"bsonType": "string"},
			"category": bson.M{
				"bsonType": "string",
				"enum":     []string{"safari", "beach", "mountain", "cultural", "adventure", "luxury"},
			},
			"difficulty": bson.M{
				"bsonType": "string",
				"enum":     []string{"easy", "medium", "difficult"},
			},
			"price":          bson.M{"bsonType": "number", "minimum": 0},
			"price_discount": bson.M{"bsonType": "number", "minimum": 0},
			"duration":       bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
			"max_group_size": bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
			"ratings_average": bson.M{
				"bsonType": "number",
				"minimum":  1,
				"maximum":  5,
			},
			"ratings_quantity": bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"highlights":       bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"included":         bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"excluded":         bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"is_active":        bson.M{"bsonType": "bool"},
			"created_at":       bson.M{"bsonType": "date"},
		},
	},
}
