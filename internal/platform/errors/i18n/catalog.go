// Package i18n renders error codes as localized user messages. Templates
// come from the "errors" namespace of the locale bundles and may reference
// error metadata, e.g. "You need {{.Cost}} coins".
package i18n

import (
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/popcity/popcity/internal/platform/i18n/catalog"
)

// Namespace is the locale bundle namespace holding error messages.
const Namespace = "errors"

// Code mirrors errors.Code; the errors package imports this one.
type Code = string

type entry struct {
	raw  string
	tmpl *template.Template // nil when raw does not parse
}

// Catalog holds the error templates of one locale.
type Catalog struct {
	locale  string
	entries map[Code]entry
}

// NewCatalog compiles messages for locale.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	c := &Catalog{locale: locale, entries: make(map[Code]entry, len(messages))}
	for code, raw := range messages {
		e := entry{raw: raw}
		if t, err := template.New(code).Parse(raw); err == nil {
			e.tmpl = t
		}
		c.entries[code] = e
	}
	return c
}

var catalogs sync.Map // locale -> *Catalog

// GetCatalog returns the catalog for the closest supported locale; anything
// unmatched gets en-US.
func GetCatalog(locale string) *Catalog {
	if c, ok := catalogs.Load(locale); ok {
		return c.(*Catalog)
	}
	resolved, messages := i18ncatalog.Default().NamespaceMessages(locale, Namespace)
	c, _ := catalogs.LoadOrStore(resolved, NewCatalog(resolved, messages))
	return c.(*Catalog)
}

// RegisterCatalog installs cat under locale, replacing any cached one.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogs.Store(locale, cat)
}

// Locale returns the locale the catalog was built for.
func (c *Catalog) Locale() string { return c.locale }

// Has reports whether code has a template.
func (c *Catalog) Has(code Code) bool {
	_, ok := c.entries[code]
	return ok
}

// Format renders code with metadata. Unknown codes render as the code and
// templates that fail to parse or execute render verbatim.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	e, ok := c.entries[code]
	if !ok {
		return code
	}
	if e.tmpl == nil {
		return e.raw
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var b strings.Builder
	if err := e.tmpl.Execute(&b, metadata); err != nil {
		return e.raw
	}
	return b.String()
}
