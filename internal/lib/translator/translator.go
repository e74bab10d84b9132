// Package translator реализует поиск локализованных текстов писем и
// уведомлений. Тексты лежат во встроенных JSON-бандлах по локалям,
// подбор локали ведётся через golang.org/x/text.
package translator

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"github.com/campusboard/campus-news/internal/lib/sl"
	"github.com/campusboard/campus-news/internal/models"
)

//go:embed bundles/*.json
var bundlesFS embed.FS

// Translator отдаёт локализованный текст по бандлу, локали и ключу.
// Отсутствующий ключ возвращается как сам ключ: путь ошибки не моделируется.
type Translator struct {
	bundles map[string]map[string]map[string]string // bundle -> locale -> key -> text
	matcher language.Matcher
	locales []string
	log     *slog.Logger
}

// New загружает встроенные бандлы. Файл bundles/<bundle>.<locale>.json
// содержит плоскую карту ключ-текст.
func New(log *slog.Logger) (*Translator, error) {
	const op = "translator.New"
	entries, err := bundlesFS.ReadDir("bundles")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	t := &Translator{
		bundles: make(map[string]map[string]map[string]string),
		log:     log,
	}
	var tags []language.Tag
	for _, entry := range entries {
		// Имя файла: <bundle>.<locale>.json
		name := entry.Name()
		parts := strings.Split(name, ".")
		if len(parts) != 3 || parts[2] != "json" {
			continue
		}
		bundle, locale := parts[0], parts[1]
		raw, err := bundlesFS.ReadFile("bundles/" + name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		texts := make(map[string]string)
		if err := json.Unmarshal(raw, &texts); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, name, err)
		}
		if t.bundles[bundle] == nil {
			t.bundles[bundle] = make(map[string]map[string]string)
		}
		t.bundles[bundle][locale] = texts
		tags = append(tags, language.Make(locale))
		t.locales = append(t.locales, locale)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%s: no bundles embedded", op)
	}
	t.matcher = language.NewMatcher(tags)
	return t, nil
}

// Text возвращает текст по ключу в наиболее подходящей локали, подставляя
// аргументы через fmt.Sprintf. Неизвестная локаль откатывается к первой
// загруженной, неизвестный ключ возвращается как есть.
func (t *Translator) Text(bundle string, locale models.Language, key string, args ...any) string {
	_, idx, conf := t.matcher.Match(language.Make(string(locale)))
	resolved := t.locales[0]
	if conf > language.No {
		resolved = t.locales[idx]
	}

	texts, ok := t.bundles[bundle][resolved]
	if !ok {
		texts = t.bundles[bundle][t.locales[0]]
	}
	text, ok := texts[key]
	if !ok {
		t.log.Warn("missing translation", slog.String("bundle", bundle),
			slog.String("locale", resolved), slog.String("key", key))
		return key
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}

// MustNew паникует, если бандлы не загрузились. Используется при старте.
func MustNew(log *slog.Logger) *Translator {
	t, err := New(log)
	if err != nil {
		log.Error("failed to load translation bundles", sl.Err(err))
		panic(err)
	}
	return t
}
