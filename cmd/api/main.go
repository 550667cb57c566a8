package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"medrag/internal/backend"
	"medrag/internal/chat"
	"medrag/internal/config"
	apihttp "medrag/internal/http"
	"medrag/internal/ingest"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	client := backend.NewHTTPClient(cfg.RAGAPIBaseURL, logger)
	conv := chat.NewConversation(logger, client)
	ingestSvc := ingest.NewService(logger, client)

	chatHandler := apihttp.NewChatHandler(logger, conv)
	uploadHandler := apihttp.NewUploadHandler(logger, ingestSvc)
	router := apihttp.NewRouter(logger, chatHandler, uploadHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("backend", cfg.RAGAPIBaseURL),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
