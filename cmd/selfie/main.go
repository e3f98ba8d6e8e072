// Command selfie はコマンドラインから1枚だけ自撮りを生成します。
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/gemini-selfie-kit/internal/config"
	"github.com/shouni/gemini-selfie-kit/pkg/domain"
	"github.com/shouni/gemini-selfie-kit/pkg/generator"
	"github.com/shouni/gemini-selfie-kit/pkg/imgutil"
	"github.com/shouni/gemini-selfie-kit/pkg/reference"
)

type options struct {
	image1, image2 string
	location       string
	phone          string
	aspect         string
	blur           int
	filter         string
	out            string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("selfie", flag.ContinueOnError)
	fs.StringVar(&o.image1, "image1", "", "1人目の参照画像 (パス, URL, data URL)")
	fs.StringVar(&o.image2, "image2", "", "2人目の参照画像 (任意)")
	fs.StringVar(&o.location, "location", domain.DefaultLocation, "撮影場所")
	fs.StringVar(&o.phone, "phone", domain.DefaultPhone, "撮影に使うスマートフォン")
	fs.StringVar(&o.aspect, "aspect", string(domain.DefaultAspectRatio), "縦横比 (1:1, 3:4, 4:3, 9:16, 16:9)")
	fs.IntVar(&o.blur, "blur", domain.DefaultBlurIntensity, "背景ボケの強さ (0-100)")
	fs.StringVar(&o.filter, "filter", string(domain.DefaultFilter), "フィルター (none, bw, sepia, vintage, warm, cool)")
	fs.StringVar(&o.out, "out", "selfie.png", "出力先のPNGファイル")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, opts); err != nil {
		slog.Error("生成に失敗しました", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, opts options) error {
	resolver, err := reference.NewResolver(reference.NewRootedReader(cfg.ReferenceRoot, nil), httpkit.New(cfg.HTTPTimeout))
	if err != nil {
		return err
	}

	req, err := buildRequest(ctx, resolver, opts)
	if err != nil {
		return err
	}

	aiClient, err := generator.NewGenAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return err
	}
	gen, err := generator.NewGeminiGenerator(aiClient, generator.WithModel(cfg.GeminiModel))
	if err != nil {
		return err
	}

	dataURL, err := gen.GenerateSelfie(ctx, req)
	if err != nil {
		return err
	}
	data, err := imgutil.DecodeDataURL(dataURL)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.out, err)
	}
	slog.Info("保存しました", "path", opts.out, "bytes", len(data))
	return nil
}

// imageResolver は参照画像の指定を data URL に変換します。
type imageResolver interface {
	Resolve(ctx context.Context, src string) (string, error)
}

func buildRequest(ctx context.Context, resolver imageResolver, opts options) (domain.GenerationRequest, error) {
	if opts.image1 == "" {
		return domain.GenerationRequest{}, &domain.ValidationError{Field: "image1", Message: domain.MsgMissingPrimaryImage}
	}
	aspect, err := domain.ParseAspectRatio(opts.aspect)
	if err != nil {
		return domain.GenerationRequest{}, err
	}
	filter, err := domain.ParseFilter(opts.filter)
	if err != nil {
		return domain.GenerationRequest{}, err
	}

	req := domain.GenerationRequest{
		Location:      opts.location,
		Phone:         opts.phone,
		AspectRatio:   aspect,
		BlurIntensity: domain.ClampBlur(opts.blur),
		Filter:        filter,
	}
	if req.PrimaryImage, err = resolver.Resolve(ctx, opts.image1); err != nil {
		return domain.GenerationRequest{}, fmt.Errorf("image1: %w", err)
	}
	if opts.image2 != "" {
		if req.SecondaryImage, err = resolver.Resolve(ctx, opts.image2); err != nil {
			return domain.GenerationRequest{}, fmt.Errorf("image2: %w", err)
		}
	}
	return req, req.Validate()
}
