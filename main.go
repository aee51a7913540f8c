package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/pastvault/asset-service/config"
	"github.com/pastvault/asset-service/http/controller"
	routes "github.com/pastvault/asset-service/http/route"
	infraPkg "github.com/pastvault/asset-service/infra"
	"github.com/pastvault/asset-service/repository"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	defer infra.Logger.Shutdown(context.Background())
	defer infra.RabbitMQ.Close()

	repo := repository.InitRepository(infra)

	ctrl := controller.NewController(cfg, infra, repo)

	router := routes.SetupRouter(ctrl)

	log.Println("HTTP Server started on :8080")
	if err := router.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
