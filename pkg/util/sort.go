package util

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// GetCreatedAtSortBson maps a sort query value like "created_at_desc" to a
// mongo sort document. Unknown keys fall back to created_at.
func GetCreatedAtSortBson(sort string) bson.D {
	value := -1
	var key string

	switch sort {
	case "created_at_asc", "created_at_desc":
		key = "created_at"
	case "price_asc", "price_desc":
		key = "price"
	default:
		key = "created_at"
	}

	if strings.Contains(sort, "asc") {
		value = 1
	}
	return bson.D{{Key: key, Value: value}}
}
