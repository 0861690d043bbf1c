package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"canal-denuncies/auth"
	"canal-denuncies/classify"
	"canal-denuncies/config"
	"canal-denuncies/controllers"
	db "canal-denuncies/database"
	"canal-denuncies/gcs"
	"canal-denuncies/metrics"
	"canal-denuncies/notify"
	"canal-denuncies/routes"
	"canal-denuncies/shell"
	"canal-denuncies/store"
	"canal-denuncies/utils"
	"canal-denuncies/wizard"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	utils.SetupLogging(cfg.Log.Level, cfg.Log.Format)
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// MongoDB
	if err := db.InitDB(ctx, cfg.Mongo.URI); err != nil {
		log.WithError(err).Fatal("init database")
	}
	defer db.DisconnectDB()

	repo := db.NewReportRepo(db.Client, cfg.Mongo.Database)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Warn("ensure indexes")
	}

	snapshot, err := store.NewFileSnapshot(filepath.Join(cfg.CacheDir, "snapshot"))
	if err != nil {
		log.WithError(err).Fatal("init local cache")
	}
	reports := store.New(repo, snapshot,
		store.WithStaleHook(func(op string) {
			metrics.StoreFallbackTotal.WithLabelValues(op).Inc()
		}),
	)

	// Attachments go to GCS when a bucket is configured, inline otherwise.
	var encoder wizard.Encoder = wizard.InlineEncoder{}
	if cfg.GCS.Bucket != "" {
		uploader, err := gcs.New(ctx, cfg.GCS.Bucket, cfg.GCS.Folder, cfg.GCS.CredentialsFile)
		if err != nil {
			log.WithError(err).Fatal("init GCS")
		}
		defer uploader.Close()
		encoder = uploader
	}

	authManager := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, cfg.Auth.DefaultAdminPIN)
	app := shell.New(shell.Config{
		Entity:             cfg.Report.Entity,
		AttachmentMaxBytes: cfg.Report.AttachmentMaxBytes,
		ResyncInterval:     cfg.Report.ResyncInterval,
		SessionCacheSize:   cfg.Server.SessionCacheSize,
		SessionIdleTTL:     cfg.Server.SessionIdleTTL,
		TokenTTL:           cfg.Auth.SessionTTL,
		Location:           cfg.Location(),
	}, shell.Deps{
		Store:      reports,
		Drafts:     store.NewDrafts(cfg.Server.SessionCacheSize, cfg.Server.SessionIdleTTL),
		Auth:       authManager,
		Classifier: classify.New(cfg.Gemini.APIKey, cfg.Gemini.Model),
		Notifier:   newNotifier(cfg),
		Encoder:    encoder,
	})
	if err := app.Start(); err != nil {
		log.WithError(err).Fatal("start background jobs")
	}
	defer app.Stop()

	secure := cfg.Server.GinMode == gin.ReleaseMode
	controllers.Init(app, secure, cfg.Report.AttachmentMaxBytes)

	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = 8 << 20
	routes.SetupRoutes(r, authManager, routes.Options{
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		SecureCookies:  secure,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.RequestTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("Starting server on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
}

// newNotifier prefers SendGrid, then SMTP, and disables notifications otherwise.
func newNotifier(cfg *config.Config) notify.Notifier {
	n := cfg.Notify
	switch {
	case n.SendGridAPIKey != "":
		log.Info("notifications via SendGrid")
		return notify.NewSendGrid(notify.SendGridConfig{
			APIKey:     n.SendGridAPIKey,
			TemplateID: n.SendGridTemplateID,
			FromEmail:  n.FromEmail,
			FromName:   n.FromName,
			ToEmail:    n.ToEmail,
			Location:   cfg.Location(),
		})
	case n.SMTPUser != "" && n.SMTPPass != "":
		log.Info("notifications via SMTP")
		to := n.ToEmail
		if to == "" {
			to = n.SMTPUser
		}
		return notify.NewSMTP(notify.SMTPConfig{
			Host:     n.SMTPHost,
			Port:     n.SMTPPort,
			User:     n.SMTPUser,
			Password: n.SMTPPass,
			FromName: n.FromName,
			ToEmail:  to,
			Location: cfg.Location(),
		})
	default:
		log.Warn("no email provider configured, notifications disabled")
		return notify.Disabled{}
	}
}
