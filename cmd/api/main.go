package main

import (
	"context"
	"log"

	"github.com/Apurer/wfs-temporal/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
