package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/happyplaces/internal/buildinfo"
	"github.com/dmitrijs2005/happyplaces/internal/client/cli"
	"github.com/dmitrijs2005/happyplaces/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg, os.Stdin, os.Stdout)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
