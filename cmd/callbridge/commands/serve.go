package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/telavoice/callbridge/cmd/callbridge/internal/build"
	"github.com/telavoice/callbridge/cmd/callbridge/internal/config"
	"github.com/telavoice/callbridge/pkg/bridge"
	"github.com/telavoice/callbridge/pkg/kv"
	"github.com/telavoice/callbridge/pkg/realtime"
	"github.com/telavoice/callbridge/pkg/report"
	"github.com/telavoice/callbridge/pkg/storage"
	"github.com/telavoice/callbridge/pkg/tools"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the telephony bridge HTTP server",
	Long: `Starts the HTTP server that answers Twilio voice webhooks and
bridges call media with the realtime model.

Endpoints:
  GET  /               health check
  ANY  /incoming-call  TwiML webhook for inbound calls
  WS   /media-stream   Twilio Media Streams websocket

Examples:
  callbridge serve --config callbridge.yaml
  OPENAI_API_KEY=sk-... callbridge serve --listen :8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "HTTP listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	logger := slog.Default()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if flagListen != "" {
		cfg.Listen = flagListen
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Shutting down...")
		cancel()
	}()

	var clientOpts []realtime.Option
	if cfg.OpenAI.URL != "" {
		clientOpts = append(clientOpts, realtime.WithURL(cfg.OpenAI.URL))
	}
	client := realtime.NewClient(cfg.OpenAI.APIKey, clientOpts...)
	connectCfg := &realtime.ConnectConfig{Model: cfg.OpenAI.Model}

	if cfg.GoogleMaps.APIKey == "" {
		logger.Warn("google_maps.api_key not set, find_location will report a configuration error")
	}
	geocoder := tools.NewGeocoder(cfg.GoogleMaps.APIKey)
	catalog := tools.NewCatalog(geocoder.Tool())

	reporter, closeSinks, err := buildReporter(cfg)
	if err != nil {
		closeSinks()
		return err
	}
	defer closeSinks()

	bridgeCfg := &bridge.Config{
		Dial: func(ctx context.Context) (realtime.Session, error) {
			return client.Connect(ctx, connectCfg)
		},
		Catalog:       catalog,
		Reporter:      reporter,
		Voice:         cfg.OpenAI.Voice,
		Instructions:  cfg.Assistant.Instructions,
		OpeningPrompt: cfg.Assistant.OpeningPrompt,
		Temperature:   cfg.OpenAI.Temperature,
	}
	handler := bridge.NewHandler(bridgeCfg, cfg.Assistant.Greeting)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"service": "callbridge",
			"version": build.Version,
		})
	})
	mux.HandleFunc("/incoming-call", handler.ServeIncomingCall)
	mux.HandleFunc("/media-stream", handler.ServeMediaStream)

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("callbridge listening", "addr", cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("callbridge stopped")
	return nil
}

// buildReporter assembles the call-record sink chain from configuration.
// The log sink is always present.
func buildReporter(cfg *config.Config) (report.Reporter, func(), error) {
	sinks := report.Multi{report.Log{}}
	var closers []func()
	closeAll := func() {
		for _, f := range closers {
			f()
		}
	}

	if dir := cfg.Reporting.BadgerDir; dir != "" {
		db, err := kv.OpenBadger(dir)
		if err != nil {
			return nil, closeAll, fmt.Errorf("open record store: %w", err)
		}
		closers = append(closers, func() { db.Close() })
		sinks = append(sinks, report.NewStore(db))
	}

	if dir := cfg.Reporting.ArchiveDir; dir != "" {
		local, err := storage.NewLocal(dir)
		if err != nil {
			return nil, closeAll, fmt.Errorf("open archive dir: %w", err)
		}
		sinks = append(sinks, report.NewArchive(local))
	}

	if s3cfg := cfg.Reporting.S3; s3cfg != nil {
		opts := s3.Options{Region: s3cfg.Region}
		if s3cfg.Endpoint != "" {
			opts.BaseEndpoint = aws.String(s3cfg.Endpoint)
		}
		if s3cfg.AccessKey != "" {
			opts.Credentials = aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     s3cfg.AccessKey,
					SecretAccessKey: s3cfg.SecretKey,
				}, nil
			})
		}
		client := s3.New(opts)
		sinks = append(sinks, report.NewArchive(storage.NewS3(client, s3cfg.Bucket, s3cfg.Prefix)))
	}

	var reporter report.Reporter = sinks
	if cfg.Reporting.Summarize {
		reporter = &report.Summarized{
			Summarizer: report.NewSummarizer(cfg.OpenAI.APIKey, cfg.Reporting.SummaryModel),
			Next:       reporter,
		}
	}
	return reporter, closeAll, nil
}
