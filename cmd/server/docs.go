package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Flaunt Auction Core API
// @version         0.1.0
// @description     Dutch auction pricing, live broadcast, presence, and chat.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
