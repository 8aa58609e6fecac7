package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/parqio/spot-booking/internal/config"
	dbpkg "github.com/parqio/spot-booking/internal/db"
	"github.com/parqio/spot-booking/internal/routes"
)

func main() {

	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
