package main

import (
	"context"
	"flag"

	"github.com/gmpi-project/gmpi/internal/client/cli"
)

func main() {
	serverAddr := flag.String("s", "http://localhost:8080", "server address")
	flag.Parse()

	app := cli.NewApp(*serverAddr)
	app.Run(context.Background())
}
