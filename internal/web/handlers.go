package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/shouni/gemini-selfie-kit/pkg/domain"
	"github.com/shouni/gemini-selfie-kit/pkg/imgutil"
	"github.com/shouni/gemini-selfie-kit/pkg/studio"
)

type apiError struct {
	Error string `json:"error"`
}

// selfieRequest は JSON API の入力です。location / phone に "custom" / "Custom Device" を
// 指定したときは custom_location / custom_phone の値を使います。
type selfieRequest struct {
	Image1         string `json:"image1"`
	Image2         string `json:"image2,omitempty"`
	Location       string `json:"location"`
	CustomLocation string `json:"custom_location,omitempty"`
	Phone          string `json:"phone"`
	CustomPhone    string `json:"custom_phone,omitempty"`
	AspectRatio    string `json:"aspect_ratio,omitempty"`
	BlurIntensity  *int   `json:"blur_intensity,omitempty"`
	Filter         string `json:"filter,omitempty"`
}

// events は値を検証してから State に畳み込むイベント列にします。
// フォームと違い、未知の縦横比やフィルター、範囲外のぼかしは黙って丸めずエラーにします。
func (req selfieRequest) events() ([]studio.Event, error) {
	aspect, err := domain.ParseAspectRatio(req.AspectRatio)
	if err != nil {
		return nil, err
	}
	filter, err := domain.ParseFilter(req.Filter)
	if err != nil {
		return nil, err
	}
	events := []studio.Event{
		studio.LocationChanged{Location: req.Location},
		studio.CustomLocationChanged{Text: req.CustomLocation},
		studio.PhoneChanged{Phone: req.Phone},
		studio.CustomPhoneChanged{Text: req.CustomPhone},
		studio.AspectRatioChanged{AspectRatio: string(aspect)},
		studio.FilterChanged{Filter: string(filter)},
	}
	if req.BlurIntensity != nil {
		v := *req.BlurIntensity
		if v < domain.MinBlurIntensity || v > domain.MaxBlurIntensity {
			return nil, fmt.Errorf("blur_intensity must be between %d and %d", domain.MinBlurIntensity, domain.MaxBlurIntensity)
		}
		events = append(events, studio.BlurChanged{Intensity: v})
	}
	return events, nil
}

type selfieResponse struct {
	Image string `json:"image"`
}

type presetsResponse struct {
	Locations      []string              `json:"locations"`
	CustomLocation string                `json:"custom_location"`
	Phones         []string              `json:"phones"`
	CustomPhone    string                `json:"custom_phone"`
	Filters        []domain.FilterOption `json:"filters"`
	AspectRatios   []domain.AspectRatio  `json:"aspect_ratios"`
	DefaultBlur    int                   `json:"default_blur_intensity"`
}

// pageData はテンプレートに渡す値です。
type pageData struct {
	State          studio.State
	Locations      []string
	CustomLocation string
	Phones         []string
	CustomPhone    string
	Filters        []domain.FilterOption
	AspectRatios   []domain.AspectRatio
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, presetsResponse{
		Locations:      domain.LocationPresets,
		CustomLocation: domain.CustomLocation,
		Phones:         domain.PhonePresets,
		CustomPhone:    domain.CustomPhone,
		Filters:        domain.Filters(),
		AspectRatios:   domain.AspectRatios(),
		DefaultBlur:    domain.DefaultBlurIntensity,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, studio.NewState())
}

// handleStudioForm はフォームの値を State に畳み込み、生成して結果画面を返します。
func (s *Server) handleStudioForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		state := studio.NewState()
		state.Error = "invalid form: " + err.Error()
		s.render(w, http.StatusBadRequest, state)
		return
	}

	state, err := s.stateFromForm(r)
	if err != nil {
		state.Error = err.Error()
		s.render(w, http.StatusBadRequest, state)
		return
	}

	if r.FormValue("action") == "clear" {
		s.render(w, http.StatusOK, studio.Reduce(state, studio.Cleared{}))
		return
	}

	out := s.controller.Generate(r.Context(), state)
	status := http.StatusOK
	switch {
	case out.Status == studio.StatusFailed:
		status = http.StatusBadGateway
	case out.Status != studio.StatusSucceeded && out.Error != "":
		status = http.StatusBadRequest
	}
	s.render(w, status, out)
}

func (s *Server) stateFromForm(r *http.Request) (studio.State, error) {
	state := studio.NewState()
	for _, ev := range []studio.Event{
		studio.LocationChanged{Location: formValue(r, "location", domain.DefaultLocation)},
		studio.CustomLocationChanged{Text: r.FormValue("custom_location")},
		studio.PhoneChanged{Phone: formValue(r, "phone", domain.DefaultPhone)},
		studio.CustomPhoneChanged{Text: r.FormValue("custom_phone")},
		studio.AspectRatioChanged{AspectRatio: r.FormValue("aspect_ratio")},
		studio.FilterChanged{Filter: r.FormValue("filter")},
	} {
		state = studio.Reduce(state, ev)
	}
	if raw := strings.TrimSpace(r.FormValue("blur")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			state = studio.Reduce(state, studio.BlurChanged{Intensity: v})
		}
	}

	for _, slot := range []struct {
		slot studio.Slot
		name string
	}{{studio.SlotPrimary, "image1"}, {studio.SlotSecondary, "image2"}} {
		dataURL, err := s.formImage(r, slot.name)
		if err != nil {
			return state, err
		}
		state = studio.Reduce(state, studio.ImageSelected{Slot: slot.slot, DataURL: dataURL})
	}
	return state, nil
}

// formImage はアップロード、URL、前回の data URL の順に参照画像を探します。
func (s *Server) formImage(r *http.Request, name string) (string, error) {
	if r.MultipartForm != nil {
		if file, header, err := r.FormFile(name); err == nil {
			defer file.Close()
			return readUpload(file, header)
		}
	}
	if src := strings.TrimSpace(r.FormValue(name + "_url")); src != "" {
		return s.resolve(r.Context(), src)
	}
	if r.FormValue("remove_"+name) != "" {
		return "", nil
	}
	prev := strings.TrimSpace(r.FormValue(name + "_data"))
	if prev != "" && !strings.HasPrefix(prev, "data:image/") {
		return "", fmt.Errorf("%s: invalid image data", name)
	}
	return prev, nil
}

var (
	errUnsupportedSource = errors.New("reference images must be uploaded or given as http(s) or data URLs")
	// errReferenceUnavailable は取得失敗の詳細を隠すための文言です。パスの存在有無を漏らさない。
	errReferenceUnavailable = errors.New("could not load the reference image")
)

// resolve は参照画像の指定を data URL にします。クライアントに返すエラーは汎用の文言だけです。
func (s *Server) resolve(ctx context.Context, src string) (string, error) {
	if strings.HasPrefix(src, "data:") {
		return src, nil
	}
	isHTTP := strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
	if s.resolver == nil || (!isHTTP && !s.serverPaths) {
		return "", errUnsupportedSource
	}
	dataURL, err := s.resolver.Resolve(ctx, src)
	if err != nil {
		s.logger.WarnContext(ctx, "参照画像を読み込めませんでした",
			"source", src, "error", err, "request_id", RequestIDFromContext(ctx))
		return "", errReferenceUnavailable
	}
	return dataURL, nil
}

func readUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s", header.Filename)
	}
	if len(data) == 0 {
		return "", nil
	}
	mimeType, err := imgutil.DetectImageMimeType(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", header.Filename, err)
	}
	return imgutil.EncodeDataURL(mimeType, data), nil
}

// handleCreateSelfie は JSON で受け取ったパラメータから1枚生成します。
func (s *Server) handleCreateSelfie(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	var req selfieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}

	events, err := req.events()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	for i, src := range []string{req.Image1, req.Image2} {
		if strings.TrimSpace(src) == "" {
			continue
		}
		dataURL, err := s.resolve(r.Context(), src)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
			return
		}
		events = append(events, studio.ImageSelected{Slot: studio.Slot(i + 1), DataURL: dataURL})
	}
	state := studio.NewState()
	for _, ev := range events {
		state = studio.Reduce(state, ev)
	}

	out := s.controller.Generate(r.Context(), state)
	switch out.Status {
	case studio.StatusSucceeded:
		writeJSON(w, http.StatusOK, selfieResponse{Image: out.Result})
	case studio.StatusFailed:
		writeJSON(w, http.StatusBadGateway, apiError{Error: out.Error})
	default:
		writeJSON(w, http.StatusBadRequest, apiError{Error: out.Error})
	}
}

func (s *Server) render(w http.ResponseWriter, status int, state studio.State) {
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, "index.html", pageData{
		State:          state,
		Locations:      domain.LocationPresets,
		CustomLocation: domain.CustomLocation,
		Phones:         domain.PhonePresets,
		CustomPhone:    domain.CustomPhone,
		Filters:        domain.Filters(),
		AspectRatios:   domain.AspectRatios(),
	}); err != nil {
		s.logger.Error("template error", "error", err)
	}
}

func formValue(r *http.Request, key, fallback string) string {
	if v := strings.TrimSpace(r.FormValue(key)); v != "" {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
