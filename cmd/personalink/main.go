package main

import (
	"log"

	"github.com/MrSnakeDoc/personalink/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ personalink failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ personalink stopped with error: %v", err)
	}
}
