package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"greenmart-io/api/pkg/models"
	"greenmart-io/api/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Auth rejects requests without a valid, non-blacklisted access token.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractToken(c)
		if tokenString == "" {
			util.HandleError(c, 401, errors.New("request does not contain an access token"))
			c.Abort()
			return
		}
		claim, err := ValidateToken(tokenString)
		if err != nil {
			util.HandleError(c, 401, err)
			c.Abort()
			return
		}

		if !IsTokenValid(util.REDIS, tokenString) {
			util.HandleError(c, 401, errors.New("token has been revoked, please login again"))
			c.Abort()
			return
		}

		c.Set("role", string(claim.Role))
		c.Next()
	}
}

// RequireRole layers on top of Auth and rejects tokens carrying any other role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claim, err := InitJwtClaim(c)
		if err != nil {
			util.HandleError(c, 401, err)
			c.Abort()
			return
		}

		if claim.Role != role {
			util.HandleError(c, 403, fmt.Errorf("this action requires a %s account", role))
			c.Abort()
			return
		}

		c.Next()
	}
}

func GenerateSecureToken(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return ""
	}

	return hex.EncodeToString(b)
}

func InvalidateToken(db *redis.Client, tokenString string) error {
	// Blacklist entries outlive the longest-lived access token.
	_, err := db.Set(context.Background(), tokenString, true, 24*time.Hour).Result()
	if err != nil {
		return err
	}

	return nil
}

// Check if token is in the blacklist.
func IsTokenValid(db *redis.Client, tokenString string) bool {
	_, err := db.Get(context.Background(), tokenString).Result()
	if err == redis.Nil {
		return true
	}
	if err != nil {
		log.Printf("Error while checking blacklist: %s", err)
		return false
	}

	return false
}
