package studio

import (
	"strings"

	"github.com/shouni/gemini-selfie-kit/pkg/domain"
)

// Status は画面から見た生成の進行状況です。
type Status string

const (
	StatusIdle       Status = "idle"
	StatusGenerating Status = "generating"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// State はスタジオ画面の状態です。値として扱い、遷移のたびに新しい State を作ります。
type State struct {
	Image1 string
	Image2 string

	Location       string
	CustomLocation string
	Phone          string
	CustomPhone    string

	AspectRatio   domain.AspectRatio
	Filter        domain.Filter
	BlurIntensity int

	Status Status
	Result string
	Error  string
}

// NewState は初期状態を返します。
func NewState() State {
	return State{
		Location:      domain.DefaultLocation,
		Phone:         domain.DefaultPhone,
		AspectRatio:   domain.DefaultAspectRatio,
		Filter:        domain.DefaultFilter,
		BlurIntensity: domain.DefaultBlurIntensity,
		Status:        StatusIdle,
	}
}

// Generating は生成中かどうかを返します。画面のボタン無効化に使います。
func (s State) Generating() bool { return s.Status == StatusGenerating }

// FinalLocation は「その他」を解決した撮影場所です。
func (s State) FinalLocation() string {
	if s.Location == domain.CustomLocation {
		return strings.TrimSpace(s.CustomLocation)
	}
	return strings.TrimSpace(s.Location)
}

// FinalPhone は「その他」を解決した端末名です。
func (s State) FinalPhone() string {
	if s.Phone == domain.CustomPhone {
		return strings.TrimSpace(s.CustomPhone)
	}
	return strings.TrimSpace(s.Phone)
}

// Request は現在の状態を検証し、生成リクエストを作ります。
func (s State) Request() (domain.GenerationRequest, error) {
	if strings.TrimSpace(s.Image1) == "" {
		return domain.GenerationRequest{}, &domain.ValidationError{Field: "image1", Message: domain.MsgMissingPrimaryImage}
	}
	if s.FinalLocation() == "" {
		return domain.GenerationRequest{}, &domain.ValidationError{Field: "location", Message: domain.MsgMissingLocation}
	}
	if s.Phone == domain.CustomPhone && s.FinalPhone() == "" {
		return domain.GenerationRequest{}, &domain.ValidationError{Field: "custom_phone", Message: domain.MsgMissingPhone}
	}

	req := domain.GenerationRequest{
		PrimaryImage:   s.Image1,
		SecondaryImage: s.Image2,
		Location:       s.FinalLocation(),
		Phone:          s.FinalPhone(),
		AspectRatio:    s.AspectRatio,
		BlurIntensity:  s.BlurIntensity,
		Filter:         s.Filter,
	}
	if err := req.Validate(); err != nil {
		return domain.GenerationRequest{}, err
	}
	return req, nil
}
