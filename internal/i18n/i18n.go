package i18n

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// DefaultLang is the language used when no translation matches.
const DefaultLang = "pt-BR"

var (
	mu     sync.RWMutex
	bundle *goi18n.Bundle
)

func init() {
	bundle = goi18n.NewBundle(language.BrazilianPortuguese)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
}

// Load reads every active.*.toml message file under path into the bundle.
func Load(path string) error {
	mu.Lock()
	defer mu.Unlock()

	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".toml") {
			continue
		}
		if _, err := bundle.LoadMessageFile(filepath.Join(path, name)); err != nil {
			return err
		}
	}
	return nil
}

// Translate resolves a message id for the given language, falling back to
// the default language and finally to the id itself.
func Translate(lang, messageID string, data map[string]any) string {
	mu.RLock()
	defer mu.RUnlock()

	localizer := goi18n.NewLocalizer(bundle, lang, DefaultLang)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}

// LangFromHeader picks the request language from X-Lang or Accept-Language.
// Only the first Accept-Language entry is considered.
func LangFromHeader(xLang, acceptLanguage string) string {
	if xLang != "" {
		return xLang
	}
	if acceptLanguage == "" {
		return DefaultLang
	}
	first := strings.TrimSpace(strings.Split(acceptLanguage, ",")[0])
	if i := strings.Index(first, ";"); i >= 0 {
		first = first[:i]
	}
	if first == "" || first == "*" {
		return DefaultLang
	}
	return first
}
