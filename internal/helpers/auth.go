package helpers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectIdParam parses a route param as a mongo object id.
func ObjectIdParam(c *gin.Context, name string) (primitive.ObjectID, error) {
	raw := c.Param(name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid %s: %q", name, raw)
	}

	return id, nil
}
