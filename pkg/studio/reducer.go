package studio

import (
	"github.com/shouni/gemini-selfie-kit/pkg/domain"
)

// Event は状態遷移のきっかけです。
type Event interface {
	isEvent()
}

// Slot は参照画像の枠です。
type Slot int

const (
	SlotPrimary Slot = iota + 1
	SlotSecondary
)

type (
	// ImageSelected は参照画像の選択（空文字で取り消し）です。
	ImageSelected struct {
		Slot    Slot
		DataURL string
	}
	LocationChanged       struct{ Location string }
	CustomLocationChanged struct{ Text string }
	PhoneChanged          struct{ Phone string }
	CustomPhoneChanged    struct{ Text string }
	// AspectRatioChanged は未知の値なら無視されます。
	AspectRatioChanged struct{ AspectRatio string }
	// FilterChanged は未知の値なら無視されます。
	FilterChanged struct{ Filter string }
	// BlurChanged は 0〜100 に丸められます。
	BlurChanged struct{ Intensity int }
	// Submitted は生成ボタンの押下です。
	Submitted           struct{}
	GenerationSucceeded struct{ Image string }
	GenerationFailed    struct{ Message string }
	// Cleared は画像と入力を初期状態に戻します。
	Cleared struct{}
)

func (ImageSelected) isEvent()         {}
func (LocationChanged) isEvent()       {}
func (CustomLocationChanged) isEvent() {}
func (PhoneChanged) isEvent()          {}
func (CustomPhoneChanged) isEvent()    {}
func (AspectRatioChanged) isEvent()    {}
func (FilterChanged) isEvent()         {}
func (BlurChanged) isEvent()           {}
func (Submitted) isEvent()             {}
func (GenerationSucceeded) isEvent()   {}
func (GenerationFailed) isEvent()      {}
func (Cleared) isEvent()               {}

// Reduce は現在の状態とイベントから次の状態を返します。s は変更しません。
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case ImageSelected:
		switch ev.Slot {
		case SlotPrimary:
			s.Image1 = ev.DataURL
		case SlotSecondary:
			s.Image2 = ev.DataURL
		}
	case LocationChanged:
		s.Location = ev.Location
	case CustomLocationChanged:
		s.CustomLocation = ev.Text
	case PhoneChanged:
		s.Phone = ev.Phone
	case CustomPhoneChanged:
		s.CustomPhone = ev.Text
	case AspectRatioChanged:
		if ar, err := domain.ParseAspectRatio(ev.AspectRatio); err == nil {
			s.AspectRatio = ar
		}
	case FilterChanged:
		if f, err := domain.ParseFilter(ev.Filter); err == nil {
			s.Filter = f
		}
	case BlurChanged:
		s.BlurIntensity = domain.ClampBlur(ev.Intensity)
	case Submitted:
		return submit(s)
	case GenerationSucceeded:
		if s.Status != StatusGenerating {
			return s
		}
		s.Status = StatusSucceeded
		s.Result = ev.Image
		s.Error = ""
	case GenerationFailed:
		if s.Status != StatusGenerating {
			return s
		}
		s.Status = StatusFailed
		s.Result = ""
		s.Error = domain.Failed(ev.Message).Err
	case Cleared:
		if s.Status == StatusGenerating {
			return s
		}
		return NewState()
	}
	return s
}

func submit(s State) State {
	if s.Status == StatusGenerating {
		return s
	}
	if _, err := s.Request(); err != nil {
		s.Error = err.Error()
		return s
	}
	s.Status = StatusGenerating
	s.Result = ""
	s.Error = ""
	return s
}
