package model

import (
	"time"
)

const (
	CategoryInterior = "interior"
	CategoryBedroom  = "bedroom"
	CategoryBathroom = "bathroom"
	CategoryKitchen  = "kitchen"
	CategoryExterior = "exterior"
	CategoryOutdoor  = "outdoor"
	CategoryOther    = "other"
)

var GalleryCategories = []string{
	CategoryInterior,
	CategoryBedroom,
	CategoryBathroom,
	CategoryKitchen,
	CategoryExterior,
	CategoryOutdoor,
	CategoryOther,
}

type GalleryImage struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
	Title       string    `json:"title" bson:"title" validate:"required,max=200"`
	AltText     string    `json:"alt_text" bson:"alt_text" validate:"max=500"`
	URL         string    `json:"url" bson:"url" validate:"required,url"`
	StoragePath string    `json:"storage_path" bson:"storage_path" validate:"required"`
	Category    string    `json:"category" bson:"category" validate:"required,gallery_category"`
	Featured    bool      `json:"featured" bson:"featured"`
	SortOrder   int       `json:"sort_order" bson:"sort_order" validate:"min=0"`
}

// GalleryImageUpdate is a partial update; nil fields are left unchanged.
type GalleryImageUpdate struct {
	Title     *string `json:"title,omitempty" validate:"omitnil,min=1,max=200"`
	AltText   *string `json:"alt_text,omitempty" validate:"omitnil,max=500"`
	Category  *string `json:"category,omitempty" validate:"omitnil,gallery_category"`
	Featured  *bool   `json:"featured,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty" validate:"omitnil,min=0"`
}

// GalleryImageMeta is the metadata supplied alongside an uploaded file.
type GalleryImageMeta struct {
	Title     string `json:"title" validate:"required,max=200"`
	AltText   string `json:"alt_text" validate:"max=500"`
	Category  string `json:"category" validate:"required,gallery_category"`
	Featured  bool   `json:"featured"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

func IsValidCategory(category string) bool {
	for _, c := range GalleryCategories {
		if c == category {
			return true
		}
	}
	return false
}
