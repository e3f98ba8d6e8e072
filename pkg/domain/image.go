package domain

import (
	"fmt"
	"strings"
)

// AspectRatio は生成画像の縦横比です。
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectPortrait  AspectRatio = "3:4"
	AspectLandscape AspectRatio = "4:3"
	AspectStory     AspectRatio = "9:16"
	AspectWide      AspectRatio = "16:9"

	DefaultAspectRatio = AspectSquare
)

// AspectRatios は画面に並べる順序で全ての縦横比を返します。
func AspectRatios() []AspectRatio {
	return []AspectRatio{AspectSquare, AspectWide, AspectStory, AspectLandscape, AspectPortrait}
}

// ParseAspectRatio は文字列を AspectRatio に変換します。空文字はデフォルト扱いです。
func ParseAspectRatio(s string) (AspectRatio, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultAspectRatio, nil
	}
	for _, ar := range AspectRatios() {
		if string(ar) == s {
			return ar, nil
		}
	}
	return "", fmt.Errorf("unsupported aspect ratio: %q", s)
}

// Filter は仕上がりのカラーフィルターです。
type Filter string

const (
	FilterNone    Filter = "none"
	FilterSepia   Filter = "sepia"
	FilterBW      Filter = "bw"
	FilterVintage Filter = "vintage"
	FilterWarm    Filter = "warm"
	FilterCool    Filter = "cool"

	DefaultFilter = FilterNone
)

// ParseFilter は文字列を Filter に変換します。空文字はデフォルト扱いです。
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultFilter, nil
	}
	for _, f := range Filters() {
		if string(f.ID) == s {
			return f.ID, nil
		}
	}
	return "", fmt.Errorf("unsupported filter: %q", s)
}

const (
	MinBlurIntensity     = 0
	MaxBlurIntensity     = 100
	DefaultBlurIntensity = 50
)

// ClampBlur はぼかし強度を 0〜100 に収めます。
func ClampBlur(v int) int {
	return max(MinBlurIntensity, min(v, MaxBlurIntensity))
}

// GenerationRequest は1回の自撮り生成要求です。呼び出しごとに作られ、使い捨てです。
type GenerationRequest struct {
	// PrimaryImage は1人目の参照画像（data URL または生の base64）。必須です。
	PrimaryImage string
	// SecondaryImage は2人目の参照画像。空なら1人での撮影になります。
	SecondaryImage string
	Location       string
	Phone          string
	AspectRatio    AspectRatio
	BlurIntensity  int
	Filter         Filter
}

// IsSolo は2人目の参照画像がないかを返します。
func (r GenerationRequest) IsSolo() bool {
	return strings.TrimSpace(r.SecondaryImage) == ""
}

// Validate は Gemini を呼び出す前にリクエストの不変条件を検証します。
func (r GenerationRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.PrimaryImage) == "":
		return &ValidationError{Field: "image1", Message: MsgMissingPrimaryImage}
	case strings.TrimSpace(r.Location) == "", strings.TrimSpace(r.Location) == CustomLocation:
		return &ValidationError{Field: "location", Message: MsgMissingLocation}
	case strings.TrimSpace(r.Phone) == "", strings.TrimSpace(r.Phone) == CustomPhone:
		// 「その他」のままではプロンプトに端末名を書けない
		return &ValidationError{Field: "phone", Message: MsgMissingPhone}
	}
	if _, err := ParseAspectRatio(string(r.AspectRatio)); err != nil {
		return &ValidationError{Field: "aspect_ratio", Message: err.Error()}
	}
	if r.BlurIntensity < MinBlurIntensity || r.BlurIntensity > MaxBlurIntensity {
		return &ValidationError{Field: "blur_intensity", Message: fmt.Sprintf("blur intensity must be between %d and %d", MinBlurIntensity, MaxBlurIntensity)}
	}
	if _, err := ParseFilter(string(r.Filter)); err != nil {
		return &ValidationError{Field: "filter", Message: err.Error()}
	}
	return nil
}

// GenerationResult は生成結果です。Image と Err のどちらか一方だけが埋まります。
type GenerationResult struct {
	Image string
	Err   string
}

// Succeeded は成功結果を作ります。
func Succeeded(image string) GenerationResult {
	return GenerationResult{Image: image}
}

// Failed は失敗結果を作ります。メッセージが空でも失敗として扱えるよう補います。
func Failed(msg string) GenerationResult {
	if strings.TrimSpace(msg) == "" {
		msg = "failed to generate selfie"
	}
	return GenerationResult{Err: msg}
}

func (r GenerationResult) OK() bool { return r.Image != "" && r.Err == "" }
