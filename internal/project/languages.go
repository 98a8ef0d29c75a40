package project

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// builtinLanguages lists ISO 639-3 code, ISO 639-1 code (or "") and the
// reference name of languages common in documentation projects.
var builtinLanguages = [][3]string{
	{"amh", "am", "Amharic"}, {"ara", "ar", "Arabic"}, {"aym", "ay", "Aymara"},
	{"aze", "az", "Azerbaijani"}, {"ben", "bn", "Bengali"}, {"bis", "bi", "Bislama"},
	{"bul", "bg", "Bulgarian"}, {"cat", "ca", "Catalan"}, {"ces", "cs", "Czech"},
	{"cym", "cy", "Welsh"}, {"dan", "da", "Danish"}, {"deu", "de", "German"},
	{"ell", "el", "Modern Greek"}, {"eng", "en", "English"}, {"est", "et", "Estonian"},
	{"eus", "eu", "Basque"}, {"fas", "fa", "Persian"}, {"fij", "fj", "Fijian"},
	{"fin", "fi", "Finnish"}, {"fra", "fr", "French"}, {"ful", "ff", "Fulah"},
	{"gle", "ga", "Irish"}, {"glg", "gl", "Galician"}, {"grn", "gn", "Guarani"},
	{"hau", "ha", "Hausa"}, {"heb", "he", "Hebrew"}, {"hin", "hi", "Hindi"},
	{"hmo", "ho", "Hiri Motu"}, {"hrv", "hr", "Croatian"}, {"hun", "hu", "Hungarian"},
	{"hye", "hy", "Armenian"}, {"ibo", "ig", "Igbo"}, {"ind", "id", "Indonesian"},
	{"isl", "is", "Icelandic"}, {"ita", "it", "Italian"}, {"jpn", "ja", "Japanese"},
	{"kat", "ka", "Georgian"}, {"kaz", "kk", "Kazakh"}, {"khm", "km", "Khmer"},
	{"kin", "rw", "Kinyarwanda"}, {"kor", "ko", "Korean"}, {"kur", "ku", "Kurdish"},
	{"lao", "lo", "Lao"}, {"lav", "lv", "Latvian"}, {"lin", "ln", "Lingala"},
	{"lit", "lt", "Lithuanian"}, {"mkd", "mk", "Macedonian"}, {"mlg", "mg", "Malagasy"},
	{"mon", "mn", "Mongolian"}, {"mri", "mi", "Maori"}, {"msa", "ms", "Malay"},
	{"mya", "my", "Burmese"}, {"nep", "ne", "Nepali"}, {"nld", "nl", "Dutch"},
	{"nor", "no", "Norwegian"}, {"orm", "om", "Oromo"}, {"pol", "pl", "Polish"},
	{"por", "pt", "Portuguese"}, {"pus", "ps", "Pushto"}, {"que", "qu", "Quechua"},
	{"ron", "ro", "Romanian"}, {"rus", "ru", "Russian"}, {"slk", "sk", "Slovak"},
	{"slv", "sl", "Slovenian"}, {"smo", "sm", "Samoan"}, {"som", "so", "Somali"},
	{"spa", "es", "Spanish"}, {"sqi", "sq", "Albanian"}, {"srp", "sr", "Serbian"},
	{"swa", "sw", "Swahili"}, {"swe", "sv", "Swedish"}, {"tgl", "tl", "Tagalog"},
	{"tha", "th", "Thai"}, {"tir", "ti", "Tigrinya"}, {"ton", "to", "Tonga (Tonga Islands)"},
	{"tpi", "", "Tok Pisin"}, {"tur", "tr", "Turkish"}, {"ukr", "uk", "Ukrainian"},
	{"und", "", "Undetermined"}, {"urd", "ur", "Urdu"}, {"uzb", "uz", "Uzbek"},
	{"vie", "vi", "Vietnamese"}, {"wol", "wo", "Wolof"}, {"xho", "xh", "Xhosa"},
	{"yor", "yo", "Yoruba"}, {"zho", "zh", "Chinese"}, {"zul", "zu", "Zulu"},
}

// Languages implements imdix.LanguageLookup over a code table. Resolved
// tags are memoized.
type Languages struct {
	mu    sync.RWMutex
	names map[string]string // iso3 -> name
	part1 map[string]string // iso1 -> iso3
	cache *lru.Cache[string, string]
}

// NewLanguages creates a lookup preloaded with the builtin table.
func NewLanguages() *Languages {
	cache, err := lru.New[string, string](512)
	if err != nil {
		panic(err)
	}
	l := &Languages{
		names: make(map[string]string, len(builtinLanguages)),
		part1: make(map[string]string, len(builtinLanguages)),
		cache: cache,
	}
	for _, row := range builtinLanguages {
		l.add(row[0], row[1], row[2])
	}
	return l
}

// Add registers or renames a language.
func (l *Languages) Add(iso3, iso1, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.add(strings.ToLower(iso3), strings.ToLower(iso1), name)
	l.cache.Purge()
}

func (l *Languages) add(iso3, iso1, name string) {
	l.names[iso3] = name
	if iso1 != "" {
		l.part1[iso1] = iso3
	}
}

// LoadTable reads an ISO 639-3 code table in the tab-separated layout SIL
// publishes (Id, Part2B, Part2T, Part1, Scope, Language_Type, Ref_Name,
// Comment). The header line is optional. It returns the number of rows read.
func (l *Languages) LoadTable(r io.Reader) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.cache.Purge()

	scanner := bufio.NewScanner(r)
	count, lineNum := 0, 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || (lineNum == 1 && strings.HasPrefix(line, "Id\t")) {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 7 {
			return count, fmt.Errorf("language table line %d: expected 7 columns, got %d", lineNum, len(cols))
		}
		l.add(strings.ToLower(cols[0]), strings.ToLower(cols[3]), cols[6])
		count++
	}
	return count, scanner.Err()
}

// Name returns the reference name for an ISO 639-1 or 639-3 code.
func (l *Languages) Name(code string) (string, bool) {
	iso3 := l.ISO3(code)
	l.mu.RLock()
	defer l.mu.RUnlock()
	name, ok := l.names[iso3]
	return name, ok
}

// ISO3 normalizes "en", "EN", "en-US" and "eng" to "eng". Unknown tags are
// returned unchanged.
func (l *Languages) ISO3(tag string) string {
	if v, ok := l.cache.Get(tag); ok {
		return v
	}

	l.mu.RLock()
	resolved := l.resolve(tag)
	l.mu.RUnlock()

	l.cache.Add(tag, resolved)
	return resolved
}

func (l *Languages) resolve(tag string) string {
	primary := strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(primary, "-_"); i >= 0 {
		primary = primary[:i]
	}
	switch len(primary) {
	case 2:
		if iso3, ok := l.part1[primary]; ok {
			return iso3
		}
	case 3:
		return primary
	}
	return tag
}
