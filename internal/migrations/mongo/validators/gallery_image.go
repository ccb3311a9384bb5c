package validators

import (
	"go.mongodb.org/mongo-driver/bson"

	"gite/pkg/model"
)

var GalleryImageValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"title",
			"url",
			"storage_path",
			"category",
			"featured",
			"sort_order",
			"created_at",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"alt_text": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"url": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"storage_path": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"category": bson.M{
				"enum": model.GalleryCategories,
			},

			"featured": bson.M{
				"bsonType": "bool",
			},

			"sort_order": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
