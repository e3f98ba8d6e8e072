package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/gemini-selfie-kit/internal/config"
	"github.com/shouni/gemini-selfie-kit/internal/web"
	"github.com/shouni/gemini-selfie-kit/pkg/generator"
	"github.com/shouni/gemini-selfie-kit/pkg/reference"
	"github.com/shouni/gemini-selfie-kit/pkg/studio"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("設定の読み込みに失敗しました", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("サーバーが異常終了しました", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	aiClient, err := generator.NewGenAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return err
	}
	gen, err := generator.NewGeminiGenerator(aiClient, generator.WithModel(cfg.GeminiModel))
	if err != nil {
		return err
	}
	controller, err := studio.NewController(gen)
	if err != nil {
		return err
	}
	resolver, err := reference.NewResolver(
		reference.NewRootedReader(cfg.ReferenceRoot, nil),
		httpkit.New(cfg.HTTPTimeout),
	)
	if err != nil {
		return err
	}

	srv, err := web.NewServer(controller, web.Options{
		Resolver: resolver,
		// ルートを決めたときだけサーバー側のファイルを参照させるのだ
		AllowServerPaths: cfg.ReferenceRoot != "",
		MaxUploadBytes:   cfg.MaxUploadBytes,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.WebAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		// 画像生成は数十秒かかることがあるのだ
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("スタジオを起動します", "addr", cfg.WebAddr, "model", gen.Model())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("シャットダウンします")
	return httpServer.Shutdown(shutdownCtx)
}
