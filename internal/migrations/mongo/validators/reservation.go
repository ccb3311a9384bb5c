package validators

import (
	"go.mongodb.org/mongo-driver/bson"

	"gite/pkg/model"
)

const isoDatePattern = `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"email",
			"phone",
			"check_in",
			"check_out",
			"guests",
			"plan_name",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 254,
			},

			"phone": bson.M{
				"bsonType":  "string",
				"minLength": 4,
				"maxLength": 32,
			},

			"check_in": bson.M{
				"bsonType": "string",
				"pattern":  isoDatePattern,
			},

			"check_out": bson.M{
				"bsonType": "string",
				"pattern":  isoDatePattern,
			},

			"guests": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"message": bson.M{
				"bsonType":  "string",
				"maxLength": 5000,
			},

			"plan_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"price": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"period": bson.M{
				"bsonType": "string",
			},

			"status": bson.M{
				"enum": model.ReservationStatuses,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
