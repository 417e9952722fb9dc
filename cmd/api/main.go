package main

import (
	"context"
	"log"

	"greenmart-io/api/internal/common"
	"greenmart-io/api/internal/routers"
)

func main() {
	if err := common.EnsureIndexes(context.Background()); err != nil {
		log.Fatal("Failed to create indexes:", err)
	}

	router := routers.InitRoute()
	err := router.Run("0.0.0.0:8080")
	if err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
