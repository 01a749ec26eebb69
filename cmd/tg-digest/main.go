package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/avelichko/tg-digest/internal/config"
	"github.com/avelichko/tg-digest/internal/deliver"
	"github.com/avelichko/tg-digest/internal/llm"
	"github.com/avelichko/tg-digest/internal/output"
	"github.com/avelichko/tg-digest/internal/runner"
	"github.com/avelichko/tg-digest/internal/source"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	watchlistPath := flag.String("watchlist", "watchlist.yaml", "path to watchlist file")
	once := flag.Bool("once", false, "run the pipeline once and exit")
	flag.Parse()

	// Optional .env file; real env vars win either way.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	watchlist, err := config.LoadWatchlist(*watchlistPath)
	if err != nil {
		log.Fatalf("Failed to load watchlist: %v", err)
	}
	if len(watchlist.Enabled()) == 0 {
		log.Println("WARNING: watchlist has no enabled chats")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}
	log.Printf("Authenticated as @%s", bot.Self.UserName)

	provider, err := llm.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create LLM provider: %v", err)
	}

	var deliverer deliver.Deliverer
	switch cfg.Delivery.Type {
	case "telegram":
		deliverer = deliver.NewTelegram(bot, cfg.Telegram.ChatID)
	case "stdout":
		deliverer = deliver.NewStdout()
	default:
		log.Fatalf("Unknown delivery type: %s", cfg.Delivery.Type)
	}

	r := runner.New(
		watchlist,
		cfg.Settings.HoursBack,
		cfg.Prompt,
		source.NewTelegram(bot),
		provider,
		output.NewWriter(cfg.Settings.OutputDir),
		deliverer,
	)

	// Single-run mode: run the pipeline once and exit.
	if *once {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		log.Println("Running digest (once mode)...")
		if err := r.Run(ctx); err != nil {
			log.Fatalf("Digest run failed: %v", err)
		}
		log.Println("Done")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RunOnStart {
		log.Println("Running initial digest...")
		if err := r.Run(ctx); err != nil {
			log.Printf("Initial run failed: %v", err)
		}
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.Schedule, func() {
		log.Println("Cron triggered, running digest...")
		if err := r.Run(ctx); err != nil {
			log.Printf("Scheduled run failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to set up cron schedule %q: %v", cfg.Schedule, err)
	}
	c.Start()
	log.Printf("Scheduled digest with cron expression: %s", cfg.Schedule)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received signal %v, shutting down...", sig)

	cancel()
	c.Stop()
	log.Println("Shutdown complete")
}
