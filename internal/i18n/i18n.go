package i18n

import "strings"

// Russian is the primary language of the dealer UI; Korean backs the
// bilingual alert strings. Unknown languages fall back to Russian.
const defaultLang = "ru"

var translations = map[string]map[string]string{
	"ru": {
		"empty_selection": "Нет выбранных товаров",
		"quotation":       "Коммерческое предложение",
		"name_header":     "Наименование / Product",
		"volume_header":   "Объём",
		"price_header":    "Цена",
		"qty_header":      "Кол-во",
		"amount_header":   "Сумма",
		"total":           "ИТОГО / TOTAL",
		"date":            "Дата",
		"rate":            "Курс",
		"items_label":     "наименований",
		"confidential":    "AMPLE:N Uzbekistan · Dealer Quotation · Confidential",
		"reset_confirm":   "Сбросить все количества?",
		"load_failed":     "Ошибка загрузки данных о товарах",
	},
	"kr": {
		"empty_selection": "선택된 제품이 없습니다",
		"quotation":       "견적서",
		"reset_confirm":   "모든 수량을 초기화합니다?",
	},
}

// T returns the translation for code in lang, falling back to Russian and
// finally to the code itself.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := translations[defaultLang][code]; ok {
		return s
	}
	return code
}

// Bilingual joins the Russian and Korean variants of a message for
// user-facing alerts, newline separated. The preferred language leads;
// anything but "kr" means Russian first.
func Bilingual(lang, code string) string {
	first, second := "ru", "kr"
	if lang == "kr" {
		first, second = "kr", "ru"
	}
	a := T(first, code)
	b := T(second, code)
	if b == code || b == a {
		return a
	}
	return a + "\n" + b
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	h := strings.ToLower(header)
	switch {
	case strings.HasPrefix(h, "ko") || strings.HasPrefix(h, "kr"):
		return "kr"
	default:
		return defaultLang
	}
}
