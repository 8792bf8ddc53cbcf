package quickpay

// Languages supported by the hosted payment window.
var supportedLanguages = map[string]bool{
	"en": true, "da": true, "de": true, "bg": true, "cs": true,
	"el": true, "et": true, "es": true, "fi": true, "fo": true,
	"fr": true, "hr": true, "hu": true, "is": true, "it": true,
	"ja": true, "ka": true, "kl": true, "ko": true, "lt": true,
	"lv": true, "nl": true, "no": true, "pl": true, "pt": true,
	"ro": true, "ru": true, "sk": true, "sl": true, "sr": true,
	"sv": true, "tr": true, "uk": true, "zh": true,
}

// NormalizeLanguage returns the given language code if the payment window
// supports it, otherwise English.
func NormalizeLanguage(lang string) string {
	if supportedLanguages[lang] {
		return lang
	}
	return "en"
}
