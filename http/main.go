package main

import (
	"context"
	"log"

	"github.com/edushelf/edushelf-catalog/config"
	"github.com/edushelf/edushelf-catalog/http/controller"
	routes "github.com/edushelf/edushelf-catalog/http/route"
	infraPkg "github.com/edushelf/edushelf-catalog/infra"
	"github.com/edushelf/edushelf-catalog/repository"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	defer infra.Telemetry.Shutdown(context.Background())

	repo := repository.InitRepository(infra)

	ctrl := controller.NewController(cfg, infra, repo)

	router := routes.SetupRouter(ctrl)

	addr := ":" + cfg.EnvConfig.HTTPPort
	log.Println("HTTP Server started on", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
