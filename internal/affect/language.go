package affect

// Language tags returned by DetectLanguage. Only used to mirror the user's
// script in the reply tone; never stored on the session.
const (
	LangJapanese = "jp"
	LangChinese  = "zh"
	LangKorean   = "kr"
	LangRussian  = "ru"
	LangEnglish  = "en"
)

type scriptRule struct {
	tag string
	in  func(rune) bool
}

// Rule order matters: kana wins over CJK ideographs for mixed Japanese text.
var scriptRules = []scriptRule{
	{LangJapanese, func(r rune) bool {
		return (r >= 0x3041 && r <= 0x3096) || (r >= 0x30A1 && r <= 0x30FA)
	}},
	{LangChinese, func(r rune) bool { return r >= 0x4E00 && r <= 0x9FFF }},
	{LangKorean, func(r rune) bool { return r >= 0xAC00 && r <= 0xD7A3 }},
	{LangRussian, func(r rune) bool {
		return (r >= 0x0430 && r <= 0x044F) || (r >= 0x0410 && r <= 0x042F)
	}},
}

// DetectLanguage maps raw text to a coarse language tag. First matching
// script rule wins; anything without a recognized script is "en".
func DetectLanguage(text string) string {
	for _, rule := range scriptRules {
		for _, r := range text {
			if rule.in(r) {
				return rule.tag
			}
		}
	}
	return LangEnglish
}
