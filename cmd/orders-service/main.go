package main

import (
	"fmt"
	"os"

	"github.com/madina/boutique-orders/internal/config"
	"github.com/madina/boutique-orders/internal/db"
	"github.com/madina/boutique-orders/internal/excel"
	httphandler "github.com/madina/boutique-orders/internal/http"
	"github.com/madina/boutique-orders/internal/logger"
	"github.com/madina/boutique-orders/internal/pdf"
	"github.com/madina/boutique-orders/internal/repository"
	"github.com/madina/boutique-orders/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	orderRepo := repository.NewOrderRepository(database)
	clientRepo := repository.NewClientRepository(database)
	dashboardRepo := repository.NewDashboardRepository(database)

	orderService := service.NewOrderService(orderRepo, clientRepo, excel.NewGenerator(), pdf.NewGenerator())
	clientService := service.NewClientService(clientRepo)
	dashboardService := service.NewDashboardService(dashboardRepo)

	handler := httphandler.NewHandler(orderService, clientService, dashboardService, log)
	router := httphandler.NewRouter(handler, cfg, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting orders service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
