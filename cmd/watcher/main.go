package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"onedrop/internal/config"
	"onedrop/internal/notify"
	"onedrop/internal/queue"
	"onedrop/internal/reconcile"
	"onedrop/internal/roster"
	"onedrop/internal/sheet"
	"onedrop/internal/store"
	"onedrop/internal/trigger"
)

// Watcher consumes sheet-change events and runs the reconciliation path:
// suppression gate, classification, notification.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "onedrop:changes")
	}

	attendance := sheet.NewPostgresStore(db.Client)
	students := roster.NewPostgresRoster(db.Client)
	logs := notify.NewPostgresLog(db.Client)

	var mailer notify.Mailer
	if cfg.MailSkip {
		log.Println("mail sending disabled (MAIL_SKIP)")
		mailer = notify.NoopMailer{}
	} else {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	}
	pipeline := notify.NewPipeline(students, logs, mailer)
	gate := reconcile.NewGate(cfg.TriggerCacheTTL)
	handler := trigger.NewHandler(cfg.InputSheetName, attendance, students, gate, pipeline)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("watcher started, waiting for change events...")
	for msg := range messages {
		ev, err := trigger.DecodeMessage(msg)
		if err != nil {
			log.Printf("skipping message: %v", err)
			continue
		}
		log.Printf("processing change %s (%s row %d)", ev.ID, ev.Kind, ev.Row)
		handler.Handle(ctx, ev)
	}

	log.Println("watcher stopped")
}
