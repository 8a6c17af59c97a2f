package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"ham-quiz-trainer/internal/app"
	"ham-quiz-trainer/internal/config"
	"ham-quiz-trainer/internal/domain"
	filebank "ham-quiz-trainer/internal/infra/file"
	"ham-quiz-trainer/internal/infra/memory"
	pgbank "ham-quiz-trainer/internal/infra/postgres"
	redisinfra "ham-quiz-trainer/internal/infra/redis"
	"ham-quiz-trainer/internal/progress"
	transport "ham-quiz-trainer/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the trainer server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the trainer server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	// A bank load failure is terminal for serving: no bank, no quiz.
	loader := bankLoader(cfg, pool)

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	var bankRepo app.BankRepository
	if redisClient != nil {
		bankRepo = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		bankRepo = memory.NewBankRepository(loader, bankTTL)
	}
	if _, err := bankRepo.Sections(ctx); err != nil {
		return err
	}

	var sessions app.SessionRepository
	var blob progress.Blob
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, redisTTL)
		blob = redisinfra.NewBlob(redisClient, 0)
	} else {
		sessions = memory.NewSessionStore()
		blob = memory.NewBlob()
	}

	service := app.NewTrainerService(sessions, bankRepo, progress.NewStore(blob), cfg.Bank.SessionSize)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trainer on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func bankLoader(cfg config.Config, pool *pgxpool.Pool) redisinfra.BankLoader {
	if pool != nil {
		return pgbank.NewBankLoader(pool)
	}
	if cfg.Bank.Dir != "" {
		return filebank.NewBankLoader(cfg.Bank.Dir)
	}
	return memory.NewStaticBankLoader(sampleBank())
}

// sampleBank provides a minimal bank so the server can run without any
// backing store configured; swap in a data dir or Postgres for real use.
func sampleBank() ([]domain.Section, map[string][]domain.Question) {
	sections := []domain.Section{
		{ID: "a1", Label: "Радиотехника", File: "a1.json", Count: 2},
	}
	questions := map[string][]domain.Question{
		"a1": {
			{
				ID:    "a1-1",
				Num:   1,
				Topic: "Радиотехника",
				Text:  "Коя е мерната единица за честота?",
				Choices: map[domain.Letter]string{
					domain.LetterA: "Херц",
					domain.LetterB: "Ват",
					domain.LetterV: "Волт",
					domain.LetterG: "Ом",
				},
				Answer: domain.LetterA,
			},
			{
				ID:    "a1-2",
				Num:   2,
				Topic: "Радиотехника",
				Text:  "Какво измерва амперметърът?",
				Choices: map[domain.Letter]string{
					domain.LetterA: "Напрежение",
					domain.LetterB: "Ток",
					domain.LetterV: "Съпротивление",
					domain.LetterG: "Мощност",
				},
				Answer: domain.LetterB,
			},
		},
	}
	return sections, questions
}
