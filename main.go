package main

import (
	"solven/config"
	"solven/internal/handler"
	"solven/internal/logger"
	"solven/internal/mq"
	"solven/internal/repo"
	"solven/internal/storage"
	"solven/router"
)

// main initializes services and starts the HTTP server.
func main() {
	config.InitConfig()
	logger.Init()
	defer logger.Sync()

	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()
	mq.InitPublisher()
	handler.InitRateLimiter()

	r := router.InitRouter()

	r.Run(":8000")
}
