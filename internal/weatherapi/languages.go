package weatherapi

import "strings"

// Language is a language code accepted by the lang query parameter.
type Language string

const (
	Arabic             Language = "ar"
	Bengali            Language = "bn"
	Bulgarian          Language = "bg"
	ChineseSimplified  Language = "zh"
	ChineseTraditional Language = "zh_tw"
	Czech              Language = "cs"
	Danish             Language = "da"
	Dutch              Language = "nl"
	Finnish            Language = "fi"
	French             Language = "fr"
	German             Language = "de"
	Greek              Language = "el"
	Hindi              Language = "hi"
	Hungarian          Language = "hu"
	Italian            Language = "it"
	Japanese           Language = "ja"
	Javanese           Language = "jv"
	Korean             Language = "ko"
	Mandarin           Language = "zh_cmn"
	Marathi            Language = "mr"
	Polish             Language = "pl"
	Portuguese         Language = "pt"
	Punjabi            Language = "pa"
	Romanian           Language = "ro"
	Russian            Language = "ru"
	Serbian            Language = "sr"
	Sinhalese          Language = "si"
	Slovak             Language = "sk"
	Spanish            Language = "es"
	Swedish            Language = "sv"
	Tamil              Language = "ta"
	Telugu             Language = "te"
	Turkish            Language = "tr"
	Ukrainian          Language = "uk"
	Urdu               Language = "ur"
	Vietnamese         Language = "vi"
	WuShanghainese     Language = "zh_wuu"
	Xiang              Language = "zh_hsn"
	YueCantonese       Language = "zh_yue"
	Zulu               Language = "zu"
)

var languageNames = map[string]Language{
	"arabic":             Arabic,
	"bengali":            Bengali,
	"bulgarian":          Bulgarian,
	"chinesesimplified":  ChineseSimplified,
	"chinesetraditional": ChineseTraditional,
	"czech":              Czech,
	"danish":             Danish,
	"dutch":              Dutch,
	"finnish":            Finnish,
	"french":             French,
	"german":             German,
	"greek":              Greek,
	"hindi":              Hindi,
	"hungarian":          Hungarian,
	"italian":            Italian,
	"japanese":           Japanese,
	"javanese":           Javanese,
	"korean":             Korean,
	"mandarin":           Mandarin,
	"marathi":            Marathi,
	"polish":             Polish,
	"portuguese":         Portuguese,
	"punjabi":            Punjabi,
	"romanian":           Romanian,
	"russian":            Russian,
	"serbian":            Serbian,
	"sinhalese":          Sinhalese,
	"slovak":             Slovak,
	"spanish":            Spanish,
	"swedish":            Swedish,
	"tamil":              Tamil,
	"telugu":             Telugu,
	"turkish":            Turkish,
	"ukrainian":          Ukrainian,
	"urdu":               Urdu,
	"vietnamese":         Vietnamese,
	"wushanghainese":     WuShanghainese,
	"xiang":              Xiang,
	"yuecantonese":       YueCantonese,
	"zulu":               Zulu,
}

var languageCodes = func() map[string]Language {
	m := make(map[string]Language, len(languageNames))
	for _, code := range languageNames {
		m[string(code)] = code
	}
	return m
}()

// FindLanguage resolves a language name or code, ignoring case.
// Unknown input reports false; callers then send no lang parameter and the
// service answers in its default language.
func FindLanguage(s string) (Language, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if code, ok := languageCodes[key]; ok {
		return code, true
	}
	if code, ok := languageNames[key]; ok {
		return code, true
	}
	return "", false
}
