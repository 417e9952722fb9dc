package models

import (
	"mime/multipart"
)

type File struct {
	File multipart.File `json:"file,omitempty" validate:"required"`
}

type Address struct {
	Line1   string `bson:"line1" json:"line1"`
	Line2   string `bson:"line2" json:"line2"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zip_code" json:"zipCode"`
	Country string `bson:"country" json:"country"`
}
