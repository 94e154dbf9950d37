package main

import (
	"context"
	"flag"
	"log"

	"github.com/dmitrijs2005/authkeeper/internal/client"
)

func main() {

	serverURL := flag.String("a", "http://127.0.0.1:8080", "server base URL")
	flag.Parse()

	app := client.NewApp(*serverURL)

	if err := app.Run(context.Background(), flag.Args()); err != nil {
		log.Fatalf("%v", err)
	}
}
