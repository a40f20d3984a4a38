package reply

// Catalog holds the fixed texts of one locale. Record-bearing messages are
// rendered as Header, then the record lines.
type Catalog struct {
	SelectionHeader    string
	SelectionQuestion  string
	FieldPrompt        string
	UnrecognizedAction string
	DeletedHeader      string
	EditedHeader       string
	CreatedHeader      string
	ListingHeader      string
	ListingFooter      string
	EmptyList          string
	InvalidNumber      string
	InvalidDate        string
	NotFound           string
	Cancelled          string
	StoreUnavailable   string
	DateMark           string
	ContentMark        string
}

var Japanese = Catalog{
	SelectionHeader:    "予定「%s」",
	SelectionQuestion:  "編集しますか？削除しますか？",
	FieldPrompt:        "何を編集しますか？ 日付 / 時間 / 内容 を送ってください",
	UnrecognizedAction: "「編集」か「削除」を送ってください",
	DeletedHeader:      "削除しました ✅",
	EditedHeader:       "変更を保存しました ✅",
	CreatedHeader:      "予定を登録しました！",
	ListingHeader:      "📅 予定リスト",
	ListingFooter:      "番号を送って編集・削除したい予定を選択してください",
	EmptyList:          "予定はありません。",
	InvalidNumber:      "正しい番号を送ってください",
	InvalidDate:        "日付が不正です",
	NotFound:           "指定番号の予定が見つかりません。",
	Cancelled:          "操作をキャンセルしました",
	StoreUnavailable:   "エラーが発生しました。しばらくしてからもう一度お試しください。",
	DateMark:           "📅",
	ContentMark:        "📝",
}

var English = Catalog{
	SelectionHeader:    "Appointment \"%s\"",
	SelectionQuestion:  "Edit or delete?",
	FieldPrompt:        "What should change? Send a new date, time or content",
	UnrecognizedAction: "Please send \"edit\" or \"delete\"",
	DeletedHeader:      "Deleted ✅",
	EditedHeader:       "Changes saved ✅",
	CreatedHeader:      "Appointment added!",
	ListingHeader:      "📅 Appointments",
	ListingFooter:      "Send a number to edit or delete an appointment",
	EmptyList:          "No appointments.",
	InvalidNumber:      "Please send a valid number",
	InvalidDate:        "That date is not valid",
	NotFound:           "That appointment no longer exists.",
	Cancelled:          "Cancelled",
	StoreUnavailable:   "Something went wrong. Please try again later.",
	DateMark:           "📅",
	ContentMark:        "📝",
}

// CatalogFor returns the catalog for a locale tag, defaulting to Japanese.
func CatalogFor(locale string) Catalog {
	switch locale {
	case "en", "en-US", "en_US":
		return English
	default:
		return Japanese
	}
}
