// Package rules registers the built-in fixers.
package rules

import (
	"github.com/yaklabco/gophpfix/pkg/fixer"
	"github.com/yaklabco/gophpfix/pkg/fixer/rules/phpunit"
)

// RegisterAll registers all built-in fixers with the given registry.
func RegisterAll(registry *fixer.Registry) {
	registry.Register(phpunit.NewAssertionCountFixer()) // PHPUNIT001
}

// RegisterAliases registers the PHP-CS-Fixer names of the built-in fixers so
// configurations written for it resolve here.
func RegisterAliases(registry *fixer.Registry) {
	registry.RegisterAlias("php_unit_assertion_count", "PHPUNIT001")
}

// init registers all built-in fixers with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic fixer registration
func init() {
	RegisterAll(fixer.DefaultRegistry)
	RegisterAliases(fixer.DefaultRegistry)
}
