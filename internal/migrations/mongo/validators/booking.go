package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"tour_id",
			"user_id",
			"unit_price",
			"participants",
			"start_date",
			"end_date",
			"status",
			"payment_status",
			"total_amount",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"tour_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"unit_price": bson.M{
				"bsonType": "number",
				"minimum":  0,
			},

			"participants": bson.M{
				"bsonType": "object",
				"required": []string{"adults"},
				"properties": bson.M{
					"adults":   bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
					"children": bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
					"infants":  bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
				},
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"cancelled",
					"completed",
				},
			},

			"payment_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"paid",
					"failed",
					"refunded",
				},
			},

			"special_requirements": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"emergency_contact": bson.M{
				"bsonType": "object",
				"required": []string{"name", "phone"},
			},

			"total_amount": bson.M{
				"bsonType": "number",
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
