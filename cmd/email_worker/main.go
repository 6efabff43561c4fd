package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/yogapermana/accountd/config"
	"github.com/yogapermana/accountd/internal/application"
	pginfra "github.com/yogapermana/accountd/internal/infrastructure/postgres"
	"github.com/yogapermana/accountd/internal/infrastructure/rediscache"
	"github.com/yogapermana/accountd/pkg/helpers"
	"github.com/yogapermana/accountd/pkg/mailer"
)

// The worker consumes activation-email jobs, resolves the account through
// the directory, sends the email, then marks the account as notified.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		log.Println("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	rdb := rediscache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	directory := application.NewDirectory(
		pginfra.NewUserAccountRepository(pool),
		rediscache.New(rdb, cfg.CacheTTL),
		nil, // the worker never enqueues jobs
		logger,
	)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitMQMailQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQMailQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var job mailer.ActivationEmailJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}

			acct, err := directory.LookupByUsername(ctx, job.Username)
			if err != nil {
				// Unknown account: drop the job, it can never succeed.
				log.Printf("lookup %s failed: %v", job.Username, err)
				_ = msg.Nack(false, false)
				continue
			}
			if acct.ActivationEmailSent {
				// Redelivered job for an account already notified.
				_ = msg.Ack(false)
				continue
			}

			subject := mailer.ActivationSubject(job.Locale)
			text, html := mailer.ActivationBody(acct.DisplayName, cfg.ActivationURL+"/"+acct.ActivationKey)

			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			err = mg.Send(c, acct.Email, subject, text, html)
			cancel()
			if err != nil {
				log.Printf("send to %s failed: %v", acct.Email, err)
				_ = msg.Nack(false, true)
				continue
			}

			if err := directory.MarkActivationEmailSent(ctx, job.Username); err != nil {
				// The email went out; keep the job out of the queue and
				// let the flag stay false rather than double-send.
				log.Printf("mark sent %s failed: %v", job.Username, err)
			}
			_ = msg.Ack(false)
		}
		close(done)
	}()

	log.Printf("email worker listening on queue=%s", cfg.RabbitMQMailQueue)
	<-stop
	log.Printf("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
