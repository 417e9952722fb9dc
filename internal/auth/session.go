package auth

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"greenmart-io/api/pkg/models"
	"greenmart-io/api/pkg/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var SESSION_NAME = "____gm"

type UserSession struct {
	ExpiresAt time.Time          `json:"expiresAt"`
	UserId    primitive.ObjectID `json:"userId"`
	Email     string             `json:"email"`
	Role      models.Role        `json:"role"`
}

func (s UserSession) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

func (s *UserSession) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, s)
}

// Set new login session cookie backed by redis.
func SetSession(ctx *gin.Context, userId primitive.ObjectID, email string, role models.Role) (string, error) {
	key := GenerateSecureToken(20)
	ttl := time.Hour * (24 * 7)
	sessExpTime := time.Now().Add(ttl)
	value := UserSession{
		UserId:    userId,
		Email:     email,
		Role:      role,
		ExpiresAt: sessExpTime,
	}

	domain := getDomainFromRequest(ctx)
	secure := isHTTPS(ctx)

	ctx.SetCookie(SESSION_NAME, key, int(ttl.Seconds()), "/", domain, secure, true)
	return key, util.REDIS.Set(ctx, key, value, ttl).Err()
}

func getDomainFromRequest(ctx *gin.Context) string {
	host := ctx.Request.Host

	// Remove port
	if colonIndex := strings.LastIndex(host, ":"); colonIndex != -1 {
		host = host[:colonIndex]
	}

	if host == "localhost" || host == "127.0.0.1" {
		return "localhost"
	}

	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return "." + strings.Join(parts[len(parts)-2:], ".")
	}

	return host
}

func isHTTPS(ctx *gin.Context) bool {
	if ctx.Request.TLS != nil {
		return true
	}

	if ctx.GetHeader("X-Forwarded-Proto") == "https" {
		return true
	}

	if ctx.GetHeader("X-Forwarded-Ssl") == "on" {
		return true
	}

	return false
}

// Delete login session.
func DeleteSession(ctx *gin.Context) {
	key, err := ctx.Cookie(SESSION_NAME)
	if err != nil {
		log.Println(err)
	}

	err = util.REDIS.Del(ctx, key).Err()
	if err != nil {
		log.Println(err)
	}

	ctx.SetCookie(SESSION_NAME, "", 0, "/", "localhost", false, true)
}
