package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"symptom-triage/internal/config"
	"symptom-triage/internal/conversation"
	"symptom-triage/internal/platform/telegram"
	"symptom-triage/internal/report"
	"symptom-triage/internal/voice"
)

func connectDB(dsn string) *sql.DB {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Invalid DATABASE_URL: %v", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			log.Println("Connected to Database.")
			return db
		}
		fmt.Printf("Waiting for DB... (%d/10)\n", i+1)
		time.Sleep(2 * time.Second)
	}
	log.Printf("Could not connect to DB: %v. Continuing without DB; persistence calls will fail and be logged.", err)
	return db
}

func runMigrations(path, dsn string) {
	m, err := migrate.New(path, dsn)
	if err != nil {
		log.Printf("Migration init failed: %v", err)
		return
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Printf("Migration up failed: %v", err)
		return
	}
	log.Println("Migrations applied successfully!")
}

func main() {
	cfg := config.LoadConfig()

	// 1. Infrastructure
	db := connectDB(cfg.DatabaseURL)
	defer db.Close()
	runMigrations(cfg.MigrationsPath, cfg.DatabaseURL)

	repo := conversation.NewRepository(db)

	var store conversation.SessionStore
	var err error
	if cfg.SessionStore == config.SessionStorePostgres {
		store, err = conversation.NewPostgresSessionStore(db, cfg.SessionCacheSize)
	} else {
		store, err = conversation.NewMemoryStore(cfg.SessionCacheSize)
	}
	if err != nil {
		log.Fatalf("Session store init failed: %v", err)
	}
	log.Printf("Using %s session store (ttl %s)", cfg.SessionStore, cfg.SessionTTL)

	// 2. Clients
	tgClient := telegram.NewClient(cfg.TelegramBotToken)
	notifiers := []conversation.AlertNotifier{conversation.NewPGNotifier(db, cfg.AlertNotifyChannel)}

	var reportSvc conversation.ReportSender
	if tgClient.Enabled() && cfg.CareTeamChatID != 0 {
		notifiers = append(notifiers, conversation.NewTelegramNotifier(tgClient, cfg.CareTeamChatID))
		reportSvc = report.NewService(tgClient, cfg.CareTeamChatID)
	} else {
		log.Println("Warning: TELEGRAM_BOT_TOKEN or CARE_TEAM_CHAT_ID is not set. Care-team chat alerts and reports are disabled.")
	}

	stt := voice.NewWhisperClient(cfg.STTServiceURL)
	var tts conversation.Synthesizer
	if cfg.ElevenLabsAPIKey != "" {
		tts = voice.NewElevenLabsClient(cfg.ElevenLabsAPIKey)
	}

	// 3. Services
	alerts := conversation.NewAlertDispatcher(repo, conversation.NewDeadLetterQueue(),
		cfg.AlertRetryAttempts, cfg.AlertRetryBackoff, notifiers...)
	engine := conversation.NewEngine(conversation.EngineConfig{
		Store:      store,
		Gateway:    repo,
		Patients:   repo,
		Alerts:     alerts,
		Reports:    reportSvc,
		SessionTTL: cfg.SessionTTL,
	})
	svc := conversation.NewService(engine, repo, alerts, stt, tts)
	handler := conversation.NewHandler(svc)

	// 4. Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS for frontend
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
			if r.Method == http.MethodOptions {
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		conversation.RegisterRoutes(r, handler)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		fmt.Printf("Server starting on port %s (%s)...\n", cfg.Port, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
	if n := len(alerts.DeadLetters()); n > 0 {
		log.Printf("Exiting with %d undelivered alerts in the dead-letter queue", n)
	}
}
