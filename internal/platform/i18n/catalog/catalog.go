// Package catalog loads the embedded locale bundles and resolves requested
// locales against them.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

var defaultBundle = mustLoadEmbedded()

// Bundle holds messages per locale and namespace.
type Bundle struct {
	locales map[string]map[string]map[string]string
	tags    []language.Tag
	names   []string
	matcher language.Matcher
}

// Default returns the process-wide embedded bundle.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the locale files compiled into this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads every locales/<locale>/<namespace>.yaml file from fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: map[string]map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		locale, namespace, messages, err := parseFile(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if want := path.Base(path.Dir(p)); locale != want {
			return nil, fmt.Errorf("catalog %s: locale %q must match directory %q", p, locale, want)
		}
		if want := strings.TrimSuffix(path.Base(p), ".yaml"); namespace != want {
			return nil, fmt.Errorf("catalog %s: namespace %q must match file name %q", p, namespace, want)
		}
		namespaces, ok := b.locales[locale]
		if !ok {
			namespaces = map[string]map[string]string{}
			b.locales[locale] = namespaces
		}
		namespaces[namespace] = messages
	}
	if _, ok := b.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	// The base locale goes first so unmatched requests fall back to it.
	b.names = append(b.names, BaseLocale)
	for locale := range b.locales {
		if locale != BaseLocale {
			b.names = append(b.names, locale)
		}
	}
	sort.Strings(b.names[1:])
	for _, name := range b.names {
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", name, err)
		}
		b.tags = append(b.tags, tag)
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Locales returns the available locales, base locale first.
func (b *Bundle) Locales() []string {
	return append([]string(nil), b.names...)
}

// Resolve maps a requested locale (or Accept-Language style list) onto the
// closest available locale.
func (b *Bundle) Resolve(requested string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return BaseLocale
	}
	if _, ok := b.locales[requested]; ok {
		return requested
	}
	_, index := language.MatchStrings(b.matcher, requested)
	if index < 0 || index >= len(b.names) {
		return BaseLocale
	}
	return b.names[index]
}

// Tag returns the language tag of the resolved locale.
func (b *Bundle) Tag(requested string) language.Tag {
	resolved := b.Resolve(requested)
	for i, name := range b.names {
		if name == resolved {
			return b.tags[i]
		}
	}
	return language.AmericanEnglish
}

// NamespaceMessages returns a copy of the namespace messages for the resolved
// locale, filling keys the locale lacks from the base locale.
func (b *Bundle) NamespaceMessages(requested, namespace string) (string, map[string]string) {
	resolved := b.Resolve(requested)
	out := map[string]string{}
	for key, value := range b.locales[BaseLocale][namespace] {
		out[key] = value
	}
	for key, value := range b.locales[resolved][namespace] {
		out[key] = value
	}
	return resolved, out
}

// Register publishes a namespace to the x/text message catalog so printers
// built with Printer can translate its keys.
func (b *Bundle) Register(namespace string) {
	for i, name := range b.names {
		_, messages := b.NamespaceMessages(name, namespace)
		for key, value := range messages {
			_ = message.SetString(b.tags[i], key, value)
		}
	}
}

// Printer returns an x/text printer for the resolved locale.
func (b *Bundle) Printer(requested string) *message.Printer {
	return message.NewPrinter(b.Tag(requested))
}

func parseFile(data string) (locale, namespace string, messages map[string]string, err error) {
	messages = map[string]string{}
	inMessages := false
	for n, raw := range strings.Split(data, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "locale:"):
			locale, err = strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "locale:")))
		case strings.HasPrefix(line, "namespace:"):
			namespace, err = strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "namespace:")))
		case line == "messages:":
			inMessages = true
		case inMessages:
			var key, value string
			key, value, err = parseEntry(line)
			if err == nil {
				if _, dup := messages[key]; dup {
					err = fmt.Errorf("duplicate key %q", key)
				}
				messages[key] = value
			}
		default:
			err = fmt.Errorf("unexpected line %q", line)
		}
		if err != nil {
			return "", "", nil, fmt.Errorf("line %d: %w", n+1, err)
		}
	}
	switch {
	case locale == "":
		return "", "", nil, fmt.Errorf("missing locale")
	case namespace == "":
		return "", "", nil, fmt.Errorf("missing namespace")
	case len(messages) == 0:
		return "", "", nil, fmt.Errorf("missing messages")
	}
	return locale, namespace, messages, nil
}

func parseEntry(line string) (string, string, error) {
	quotedKey, err := strconv.QuotedPrefix(line)
	if err != nil {
		return "", "", fmt.Errorf("expected quoted key: %w", err)
	}
	key, _ := strconv.Unquote(quotedKey)
	rest := strings.TrimSpace(line[len(quotedKey):])
	if !strings.HasPrefix(rest, ":") {
		return "", "", fmt.Errorf("missing ':' separator")
	}
	value, err := strconv.Unquote(strings.TrimSpace(rest[1:]))
	if err != nil {
		return "", "", fmt.Errorf("unquote value: %w", err)
	}
	return key, value, nil
}

func mustLoadEmbedded() *Bundle {
	b, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return b
}
