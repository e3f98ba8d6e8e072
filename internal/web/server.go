package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shouni/gemini-selfie-kit/pkg/reference"
	"github.com/shouni/gemini-selfie-kit/pkg/studio"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options は Server の任意設定です。
type Options struct {
	// Resolver があれば image1_url / image2_url や JSON の http(s) URL 指定を受け付けます。
	Resolver *reference.Resolver
	// AllowServerPaths が true のときだけ、ローカルパスや gs:// などサーバー側の参照を読みます。
	// REFERENCE_ROOT で読める範囲を絞ってから有効にしてください。
	AllowServerPaths bool
	MaxUploadBytes   int64
	Logger         *slog.Logger
}

// Server はスタジオ画面と JSON API を提供します。
type Server struct {
	controller     *studio.Controller
	resolver       *reference.Resolver
	serverPaths    bool
	maxUploadBytes int64
	logger         *slog.Logger
	tmpl           *template.Template
}

// NewServer は依存関係を注入して Server を初期化します。
func NewServer(controller *studio.Controller, opts Options) (*Server, error) {
	if controller == nil {
		return nil, fmt.Errorf("controller is required")
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"imageURL": imageURL,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 25 << 20
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Server{
		controller:     controller,
		resolver:       opts.Resolver,
		serverPaths:    opts.AllowServerPaths,
		maxUploadBytes: maxUpload,
		logger:         logger,
		tmpl:           tmpl,
	}, nil
}

// Routes はルーティング済みのハンドラを返します。
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID, middleware.RealIP, middleware.Recoverer, AccessLog(s.logger))

	r.Get("/healthz", s.handleHealth)

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleStudioForm)

	r.Route("/api", func(r chi.Router) {
		r.Get("/presets", s.handlePresets)
		r.Post("/selfies", s.handleCreateSelfie)
	})

	return r
}

// imageURL は data:image/ で始まる値だけを img の src に埋め込めるようにします。
func imageURL(s string) template.URL {
	if strings.HasPrefix(s, "data:image/") {
		return template.URL(s)
	}
	return ""
}
