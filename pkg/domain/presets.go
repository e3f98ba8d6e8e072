package domain

// 撮影場所と端末の「その他」を表す選択値です。
const (
	CustomLocation = "custom"
	CustomPhone    = "Custom Device"
)

// LocationPresets は選択肢として並べる撮影場所です。
var LocationPresets = []string{
	"Disneyland Paris",
	"Eiffel Tower",
	"Great Wall of China",
	"Grand Canyon",
	"Santorini, Greece",
	"Taj Mahal, India",
	"Burj Khalifa, Dubai",
	"Atomium, Belgium",
}

// PhonePresets は選択肢として並べる端末です。最後の要素は CustomPhone です。
var PhonePresets = []string{
	"iPhone 15 Pro",
	"iPhone 15",
	"iPhone 14 Pro",
	"Samsung Galaxy S24 Ultra",
	"Samsung Galaxy S23",
	"Samsung Galaxy Z Fold 5",
	"Google Pixel 8 Pro",
	"Google Pixel 7",
	CustomPhone,
}

const (
	DefaultLocation = "Disneyland Paris"
	DefaultPhone    = "iPhone 15 Pro"
)

// FilterOption はフィルターの表示用ラベルです。
type FilterOption struct {
	ID    Filter `json:"id"`
	Label string `json:"label"`
}

// Filters は画面に並べる順序でフィルターを返します。
func Filters() []FilterOption {
	return []FilterOption{
		{ID: FilterNone, Label: "Natural"},
		{ID: FilterBW, Label: "Noir"},
		{ID: FilterSepia, Label: "Sepia"},
		{ID: FilterVintage, Label: "Film"},
		{ID: FilterWarm, Label: "Golden"},
		{ID: FilterCool, Label: "Frost"},
	}
}
