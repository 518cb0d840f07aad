// Package i18n translates the messages lproj prints.
//
// Catalogs are gettext .po files embedded in the binary under
// locales/{lang}/LC_MESSAGES/lproj.po and loaded by Init:
//
//	i18n.Init("") // auto-detect from LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	fmt.Println(i18n.T("new pbx project written with localization groups"))
//	fmt.Println(i18n.N("%d key", "%d keys", n))
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

const domain = "lproj"

var po *gotext.Locale

// Init loads the catalog for lang. An empty lang is detected from the
// environment the way GNU gettext does it.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T returns the translation of msgid, or msgid itself.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// Tf translates format and applies args to it.
func Tf(format string, args ...any) string {
	return fmt.Sprintf(T(format), args...)
}

// N picks the plural form for n and formats n into it.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return fmt.Sprintf(singular, n)
		}
		return fmt.Sprintf(plural, n)
	}
	return po.GetN(singular, plural, n, n)
}

// detectLanguage follows gettext priority: LANGUAGE > LC_ALL > LC_MESSAGES > LANG.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE is a colon-separated preference list.
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// ru_RU.UTF-8@latin -> ru_RU
		if idx := strings.IndexAny(val, ".@"); idx >= 0 {
			val = val[:idx]
		}
		if val == "" || val == "C" || val == "POSIX" {
			continue
		}
		return val
	}
	return "en"
}
