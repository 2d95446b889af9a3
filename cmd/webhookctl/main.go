// webhookctl manages the bot's Webex webhook registration: it lists
// existing webhooks, or replaces them all with a single one pointing
// at the given public URL. Meant for development and deployment
// bootstrap, not for the running bot.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/rodrwan/webex-relay/internal/config"
	"github.com/rodrwan/webex-relay/internal/webex"
)

func main() {
	var (
		list      = pflag.Bool("list", false, "list registered webhooks and exit")
		targetURL = pflag.String("target-url", "", "public URL Webex should deliver events to (the /webhook path is appended)")
		name      = pflag.String("name", "webex-relay-webhook", "name for the created webhook")
	)
	pflag.Parse()

	cfg := config.Load()
	client := webex.NewClient(cfg.WebexAPIBaseURL, cfg.WebexBotToken)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hooks, err := client.ListWebhooks(ctx)
	if err != nil {
		log.Fatalf("list webhooks: %v", err)
	}
	if *list {
		if len(hooks) == 0 {
			fmt.Println("no webhooks registered")
			return
		}
		for _, wh := range hooks {
			fmt.Printf("%s\t%s\t%s/%s\t%s\n", wh.ID, wh.Name, wh.Resource, wh.Event, wh.TargetURL)
		}
		return
	}

	if *targetURL == "" {
		pflag.Usage()
		os.Exit(2)
	}

	for _, wh := range hooks {
		log.Printf("deleting webhook %s -> %s", wh.ID, wh.TargetURL)
		if err := client.DeleteWebhook(ctx, wh.ID); err != nil {
			log.Fatalf("delete webhook %s: %v", wh.ID, err)
		}
	}

	created, err := client.CreateWebhook(ctx, *name, *targetURL+"/webhook")
	if err != nil {
		log.Fatalf("create webhook: %v", err)
	}
	log.Printf("webhook created: %s -> %s", created.ID, created.TargetURL)
}
