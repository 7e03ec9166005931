package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/weddingkeeper/internal/server"
	"github.com/dmitrijs2005/weddingkeeper/internal/server/config"
)

// Usage:
//
//	server [flags]                 serve the records API
//	server token [subject] [flags] print an admin access token
func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	if len(os.Args) > 1 && os.Args[1] == "token" {
		subject := "admin"
		if len(os.Args) > 2 && !strings.HasPrefix(os.Args[2], "-") {
			subject = os.Args[2]
		}
		if err := server.Token(os.Stdout, cfg, subject); err != nil {
			log.Printf("%v", err)
		}
		return
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
