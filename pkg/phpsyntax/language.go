// Package phpsyntax is the PHP host for the migrate engine. It parses PHP
// with tree-sitter, lists the global class-name references of a file and
// applies rewrite decisions back to the source text.
package phpsyntax

import (
	"errors"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/alexaandru/go-sitter-forest/php"
)

// LanguageName is the tree-sitter grammar name.
const LanguageName = "php"

var errLanguageNotAvailable = errors.New("php grammar not available")

var language struct {
	once sync.Once
	lang *sitter.Language
}

// Language returns the cached tree-sitter PHP language, or nil if the
// grammar cannot be loaded.
func Language() *sitter.Language {
	language.once.Do(func() {
		defer func() {
			_ = recover() //nolint:errcheck // recover() returns any, not error
		}()

		language.lang = sitter.NewLanguage(php.GetLanguage())
	})

	return language.lang
}
