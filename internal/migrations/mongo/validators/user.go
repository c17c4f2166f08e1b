package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "email", "role", "password_hash", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":   bson.M{"bsonType": "objectId"},
			"name":  bson.M{"bsonType": "string", "minLength": 2, "maxLength": 50},
			"email": bson.M{"bsonType": "string"},
			"phone": bson.M{"bsonType": "string"},
			"role": bson.M{
				"bsonType": "string",
				"enum":     []string{"user", "guide", "lead-guide", "admin"},
			},
			"password_hash": bson.M{"bsonType": "string"},
			"active":        bson.M{"bsonType": "bool"},
			"created_at":    bson.M{"bsonType": "date"},
		},
	},
}
