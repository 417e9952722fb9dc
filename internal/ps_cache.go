package internal

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"greenmart-io/api/pkg/util"
)

var CHANNEL_GLOBAL_CACHE = "GLOBAL_CACHE"

type CacheMessageType string

const (
	CacheInvalidateUser            CacheMessageType = "user.invalidate"
	CacheInvalidateUserCart        CacheMessageType = "user.cart.invalidate"
	CacheInvalidateUserOrders      CacheMessageType = "user.orders.invalidate"
	CacheInvalidateUserPaymentCard CacheMessageType = "user.payment.cards.invalidate"

	CacheInvalidateSeller  CacheMessageType = "seller.invalidate"
	CacheInvalidateSellers CacheMessageType = "sellers.invalidate"

	CacheInvalidateCatalogue      CacheMessageType = "catalogue.invalidate"
	CacheInvalidateCatalogues     CacheMessageType = "catalogues.invalidate"
	CacheInvalidateProducts       CacheMessageType = "products.invalidate"
	CacheInvalidateProductReviews CacheMessageType = "product.reviews.invalidate"
)

type CacheMessage struct {
	Type      CacheMessageType `json:"type"`
	Payload   string           `json:"payload"`
	Timestamp int64            `json:"timestamp"`
}

// PublishCacheMessage publishes a cache invalidation message to Redis pub/sub as JSON
func PublishCacheMessage(ctx context.Context, messageType CacheMessageType, payload string) error {
	cacheMessage := CacheMessage{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	}

	messageJSON, err := json.Marshal(cacheMessage)
	if err != nil {
		log.Printf("Failed to marshal cache message: %v", err)
		return err
	}

	err = util.REDIS.Publish(ctx, CHANNEL_GLOBAL_CACHE, string(messageJSON)).Err()
	if err != nil {
		log.Printf("Failed to publish cache message: %v", err)
		return err
	}

	return nil
}

// PublishCacheMessageDirect publishes a cache invalidation message directly without context
func PublishCacheMessageDirect(messageType CacheMessageType, payload string) error {
	return PublishCacheMessage(context.Background(), messageType, payload)
}
