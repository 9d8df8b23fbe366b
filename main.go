package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/vietanh2810/festival-api/cmd/app"
)

// @title        Festival Manager API
// @description  Workflow and authorization backend for multi-party festivals.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token issued at login
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
