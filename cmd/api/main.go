package main

import (
	"log"

	"github.com/emilythestrangee/quote-vault/backend/internal/config"
	"github.com/emilythestrangee/quote-vault/backend/internal/server"
)

func main() {
	cfg := config.Load()

	srv := server.NewServer(cfg)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
