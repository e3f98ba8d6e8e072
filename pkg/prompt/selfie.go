package prompt

import (
	"fmt"
	"strings"

	"github.com/shouni/gemini-selfie-kit/pkg/domain"
)

// Options は自撮りプロンプトの組み立てに必要なパラメータです。
type Options struct {
	Location      string
	Phone         string
	BlurIntensity int
	Filter        domain.Filter
	// Solo は参照画像が1枚だけのとき true です。
	Solo bool
}

// 背景ぼかしの表現です。
const (
	BlurMinimal  = "minimal blur, sharp background details and scenery"
	BlurSoft     = "soft blur on the background"
	BlurModerate = "moderate natural bokeh"
	BlurStrong   = "strong artistic bokeh"
	BlurExtreme  = "extreme cinematic bokeh, heavily blurred background, creamy shallow depth of field"
)

type blurRule struct {
	match  func(intensity int) bool
	phrase string
}

// blurRules は上から順に評価し、最初に一致したものを採用します。
// 40〜60 はどれにも一致せず BlurModerate になります。
var blurRules = []blurRule{
	{func(i int) bool { return i < 20 }, BlurMinimal},
	{func(i int) bool { return i < 40 }, BlurSoft},
	{func(i int) bool { return i > 80 }, BlurExtreme},
	{func(i int) bool { return i > 60 }, BlurStrong},
}

// BlurPhrase は 0〜100 のぼかし強度をプロンプト用の表現に変換します。
func BlurPhrase(intensity int) string {
	for _, r := range blurRules {
		if r.match(intensity) {
			return r.phrase
		}
	}
	return BlurModerate
}

// FilterNeutral は none や未知のフィルターに使う表現です。
const FilterNeutral = "Use natural colors, professional lighting."

var filterPhrases = map[domain.Filter]string{
	domain.FilterNone:    FilterNeutral,
	domain.FilterSepia:   "Apply a warm sepia tone filter, with brownish tints.",
	domain.FilterBW:      "Render the photo in high-contrast black and white.",
	domain.FilterVintage: "Apply a vintage film look with subtle grain.",
	domain.FilterWarm:    "Apply a warm, golden hour filter.",
	domain.FilterCool:    "Apply a cool blue-toned filter.",
}

// FilterPhrase はフィルターをプロンプト用の表現に変換します。
func FilterPhrase(f domain.Filter) string {
	if p, ok := filterPhrases[f]; ok {
		return p
	}
	return FilterNeutral
}

// 参照画像ごとの本人再現指示です。
const (
	SoloReference = "REFERENCE (Person 1): Replicate the exact facial features, skin tone, bone structure, hairstyle, and expression of the person in the attached image with 100% accuracy."
	PairReference = "REFERENCE 1 (Person 1): Replicate the exact facial features, skin tone, bone structure, hairstyle, and expression of the person in the first attached image.\n" +
		"REFERENCE 2 (Person 2): Replicate the exact facial features, skin tone, bone structure, hairstyle, and expression of the person in the second attached image."
)

// Compose は自撮り生成用の指示文を組み立てます。同じ入力には常に同じ文字列を返します。
func Compose(opts Options) string {
	subjects := "two people"
	reference := PairReference
	if opts.Solo {
		subjects = "one person"
		reference = SoloReference
	}

	var b strings.Builder
	fmt.Fprintf(&b, "TASK: Create an ultra-realistic, professional high-detail handheld selfie of %s at %s.\n\n", subjects, opts.Location)

	b.WriteString(reference)
	b.WriteString("\n\n")

	b.WriteString("SELFIE AUTHENTICITY & GAZE:\n")
	fmt.Fprintf(&b, "- EYE CONTACT: The subjects are looking DIRECTLY into the front-facing selfie camera lens of the %s they are holding.\n", opts.Phone)
	b.WriteString("- ALIGNMENT: Their eyes must be perfectly aligned with the camera lens for a sharp, engaging gaze, exactly as if they are taking a real selfie. They are NOT looking at the screen, to the side, or at the viewer; they are looking into the lens.\n")
	b.WriteString("- POSTURE: One arm is extended forward/slightly upward to hold the phone, creating a natural selfie shoulder/arm angle.\n")
	b.WriteString("- PERSPECTIVE: The camera angle is slightly high-angle or eye-level, characteristic of a handheld smartphone shot.\n\n")

	b.WriteString("SCENE COMPOSITION:\n")
	fmt.Fprintf(&b, "- DEVICE: The edge of the %s or the hand holding it is naturally partially visible in the corner or bottom of the frame, emphasizing the handheld nature.\n", opts.Phone)
	fmt.Fprintf(&b, "- BACKGROUND: A stunning, realistic, and iconic view of %s.\n", opts.Location)
	fmt.Fprintf(&b, "- BLUR EFFECT: Apply %s.\n", BlurPhrase(opts.BlurIntensity))
	fmt.Fprintf(&b, "- STYLE: %s\n", FilterPhrase(opts.Filter))
	b.WriteString("- IDENTITY: Identity preservation is the top priority. The generated subjects must be indistinguishable from the reference images provided.\n")

	return b.String()
}

// FromRequest はリクエストから Options を作ります。
func FromRequest(req domain.GenerationRequest) Options {
	return Options{
		Location:      strings.TrimSpace(req.Location),
		Phone:         strings.TrimSpace(req.Phone),
		BlurIntensity: req.BlurIntensity,
		Filter:        req.Filter,
		Solo:          req.IsSolo(),
	}
}
