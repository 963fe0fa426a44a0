package profanity

// Supported lexicon languages. English and Persian-Latin are space-segmented
// scripts and match on whole tokens; Arabic-script Persian matches on
// substrings because compounds and declensions attach directly to the root.
const (
	LangEnglish      = "english"
	LangPersian      = "persian"
	LangPersianLatin = "persian_latin"
)

// boundaryLanguages marks which languages use whole-token matching.
var boundaryLanguages = map[string]bool{
	LangEnglish:      true,
	LangPersianLatin: true,
	LangPersian:      false,
}

// KnownLanguage reports whether lang has a word list and a matching rule.
func KnownLanguage(lang string) bool {
	_, ok := boundaryLanguages[lang]
	return ok
}

// DefaultLexicon seeds an empty store on first run.
func DefaultLexicon() map[string][]string {
	return map[string][]string{
		LangEnglish: {
			"fuck", "shit", "damn", "bitch", "asshole", "bastard", "crap",
			"piss", "bloody", "stupid", "idiot", "moron", "dumb",
			"wtf", "stfu", "gtfo", "fml",
		},
		LangPersian: {
			"کیر", "کس", "جنده", "لاشی", "حرومزاده", "کونی", "گاو", "خر",
			"احمق", "مسخره", "چرت", "مزخرف", "ریدم", "گه", "عن", "کثیف",
			"لعنتی", "بیناموس", "هرزه", "پدرسگ", "مادرجنده", "خارکسده",
			"کیری", "کسکش", "جاکش", "بیشرف", "فاحشه", "روسپی",
		},
		LangPersianLatin: {
			"kir", "kos", "jende", "lashi", "haramzade", "kuni", "gav", "khar",
			"ahmagh", "maskhare", "chert", "mozakhraf", "ridam", "goh",
			"kasif", "lanati", "binamoos", "harze", "pedarsag", "madarjende",
			"kharkosde", "kiri", "koskesh", "jakesh", "bisharaf", "fahesha",
			"roospi", "koon", "kose", "gomsho", "khafe sho",
		},
	}
}

// highSeverityRoots carry a +3 severity bonus per matched term containing them.
var highSeverityRoots = []string{"fuck", "کیر", "کس", "jende", "kir", "kos"}

// stretchRoots get repetition-tolerant patterns so stretched spellings
// ("fuuuck") and symbol-noise obfuscation ("f*u*c*k") are still caught.
var stretchRoots = []string{"fuck", "shit", "bitch", "damn", "kir", "kos", "jende", "kuni"}
