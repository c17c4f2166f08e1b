package validators

import "go.mongodb.org/mongo-driver/bson"

var ReviewValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"tour_id", "user_id", "rating", "review", "helpful_count", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":     bson.M{"bsonType": "objectId"},
			"tour_id": bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
			"user_id": bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
			"rating": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
				"maximum":  5,
			},
			"review": bson.M{"bsonType": "string", "minLength": 10, "maxLength": 1000},
			"photos": bson.M{
				"bsonType": "array",
				"maxItems": 5,
				"items":    bson.M{"bsonType": "string"},
			},
			"helpful_count": bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"helpful_by": bson.M{
				"bsonType":    "array",
				"uniqueItems": true,
				"items":       bson.M{"bsonType": "string"},
			},
			"response": bson.M{
				"bsonType": "object",
				"required": []string{"message", "responded_by", "responded_at"},
			},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
