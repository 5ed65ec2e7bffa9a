package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xavierca1/workshop-payments/internal/config"
	"github.com/xavierca1/workshop-payments/internal/infra/database"
	"github.com/xavierca1/workshop-payments/internal/infra/http/handlers"
	"github.com/xavierca1/workshop-payments/internal/infra/integration/cashfree"
	"github.com/xavierca1/workshop-payments/internal/infra/mail"
	"github.com/xavierca1/workshop-payments/internal/infra/queue"
	"github.com/xavierca1/workshop-payments/internal/infra/worker"
	"github.com/xavierca1/workshop-payments/internal/logger"
	"github.com/xavierca1/workshop-payments/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	log := logger.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("❌ falha ao conectar no banco")
	}

	if cfg.RunMigrations {
		if err := database.RunMigrations(db); err != nil {
			log.WithError(err).Fatal("❌ falha nas migrations")
		}
	}

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	paymentRepo := database.NewPaymentRepository(db)
	pricingRepo := database.NewPricingRepository(db)

	// 2. Gateway e notificação
	gateway := cashfree.NewClient(cfg.GatewayAppID, cfg.GatewaySecret, cfg.GatewayEnv, cfg.GatewayTimeout,
		cashfree.WithAPIVersion(cfg.GatewayAPIVersion))
	if !gateway.Configured() {
		log.Warn("⚠️ credenciais do gateway ausentes, checkout vai responder GATEWAY_UNAVAILABLE")
	}

	mailSender := mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	var notifier usecase.Notifier = mailSender
	var broker handlers.BrokerChecker
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.WithError(err).Fatal("❌ falha ao conectar no RabbitMQ")
		}
		defer rabbitMQ.Close()

		notifier = queue.NewProducer(rabbitMQ.Ch)
		broker = rabbitMQ

		// 3. Worker (consome a fila e envia o email)
		mailWorker := queue.NewWorker(rabbitMQ.Ch, mailSender)
		go func() {
			if err := mailWorker.Start(ctx, queue.QueueName); err != nil {
				log.WithError(err).Error("❌ worker de email parou")
			}
		}()
	} else {
		log.Info("RabbitMQ não configurado, confirmações enviadas direto por SMTP")
	}

	// 4. UseCases
	gatewayOpts := usecase.GatewayOptions{
		ReturnURL:     cfg.GatewayReturnURL,
		NotifyURL:     cfg.GatewayNotifyURL,
		RemoteRefunds: cfg.GatewayRemoteRefunds,
	}
	settlement := usecase.NewSettlement(leadRepo, paymentRepo, notifier)
	checkoutUC := usecase.NewInitiateCheckoutUseCase(leadRepo, paymentRepo, pricingRepo, gateway, gatewayOpts)
	leadsUC := usecase.NewRegisterLeadUseCase(leadRepo)
	joinUC := usecase.NewJoinWorkshopUseCase(leadsUC, checkoutUC)
	webhookUC := usecase.NewHandleWebhookUseCase(paymentRepo, gateway, settlement, cfg.WebhookRequireSignature)
	verifyUC := usecase.NewVerifyPaymentUseCase(paymentRepo, gateway, settlement)
	statusUC := usecase.NewPaymentStatusUseCase(paymentRepo)
	refundUC := usecase.NewRefundPaymentUseCase(paymentRepo, leadRepo, gateway, gatewayOpts)
	pricingUC := usecase.NewPricingUseCase(pricingRepo)

	if cfg.ReconcileInterval > 0 {
		sweeper := worker.NewReconcileWorker(paymentRepo, verifyUC, cfg.ReconcileInterval, cfg.ReconcileMinAge)
		go sweeper.Start(ctx)
	}

	// 5. Handlers
	router := NewRouter(cfg, Handlers{
		Checkout: handlers.NewCheckoutHandler(checkoutUC, joinUC),
		Webhook:  handlers.NewWebhookHandler(webhookUC),
		Payments: handlers.NewPaymentHandler(verifyUC, statusUC, refundUC),
		Leads:    handlers.NewLeadHandler(leadsUC),
		Pricing:  handlers.NewPricingHandler(pricingUC),
		Health:   handlers.NewHealthHandler(db, broker, gateway, version),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).WithField("env", cfg.Env).Info("🔥 Server rodando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("❌ servidor HTTP caiu")
		}
	}()

	<-ctx.Done()
	shutdown(srv, db)
}

func shutdown(srv *http.Server, db *sql.DB) {
	log := logger.WithComponent("main")
	log.Info("encerrando...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown do servidor HTTP falhou")
	}
	if err := db.Close(); err != nil {
		log.WithError(err).Warn("falha ao fechar o banco")
	}
}
