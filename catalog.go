package xlate

import (
	"errors"
	"fmt"
	"strings"
)

// Language identifies a programming language the service can convert
// between. The catalog is fixed at build time; detection results outside
// it are rejected.
type Language string

// Supported languages. The identifiers are the exact strings the detection
// schema constrains to and the API exposes.
const (
	// Web
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguagePHP        Language = "php"
	LanguageHTML       Language = "html"
	LanguageCSS        Language = "css"

	// Backend
	LanguagePython Language = "python"
	LanguageJava   Language = "java"
	LanguageCSharp Language = "csharp"
	LanguageGo     Language = "go"
	LanguageRust   Language = "rust"
	LanguageRuby   Language = "ruby"
	LanguageNodeJS Language = "nodejs"

	// Mobile
	LanguageKotlin      Language = "kotlin"
	LanguageSwift       Language = "swift"
	LanguageDart        Language = "dart"
	LanguageFlutter     Language = "flutter"
	LanguageReactNative Language = "react_native"

	// Systems
	LanguageCPP      Language = "cpp"
	LanguageC        Language = "c"
	LanguageAssembly Language = "assembly"

	// Database
	LanguageSQL     Language = "sql"
	LanguagePLSQL   Language = "plsql"
	LanguageMongoDB Language = "mongodb"

	// Shell
	LanguageBash       Language = "bash"
	LanguagePowerShell Language = "powershell"

	// Functional
	LanguageScala   Language = "scala"
	LanguageHaskell Language = "haskell"
	LanguageElixir  Language = "elixir"

	// Data science
	LanguageR      Language = "r"
	LanguageJulia  Language = "julia"
	LanguageMatlab Language = "matlab"

	// Infrastructure
	LanguageTerraform  Language = "terraform"
	LanguageKubernetes Language = "kubernetes"
	LanguageDocker     Language = "docker"

	// Other
	LanguageLua     Language = "lua"
	LanguagePerl    Language = "perl"
	LanguageGroovy  Language = "groovy"
	LanguageCOBOL   Language = "cobol"
	LanguageFortran Language = "fortran"
)

// ErrLanguageNotRecognized is returned when a value is not in the catalog.
var ErrLanguageNotRecognized = errors.New("language not recognized")

// catalog holds the languages in declaration order.
var catalog = []Language{
	LanguageJavaScript, LanguageTypeScript, LanguagePHP, LanguageHTML, LanguageCSS,
	LanguagePython, LanguageJava, LanguageCSharp, LanguageGo, LanguageRust,
	LanguageRuby, LanguageNodeJS,
	LanguageKotlin, LanguageSwift, LanguageDart, LanguageFlutter, LanguageReactNative,
	LanguageCPP, LanguageC, LanguageAssembly,
	LanguageSQL, LanguagePLSQL, LanguageMongoDB,
	LanguageBash, LanguagePowerShell,
	LanguageScala, LanguageHaskell, LanguageElixir,
	LanguageR, LanguageJulia, LanguageMatlab,
	LanguageTerraform, LanguageKubernetes, LanguageDocker,
	LanguageLua, LanguagePerl, LanguageGroovy, LanguageCOBOL, LanguageFortran,
}

// catalogSet provides O(1) membership checks.
var catalogSet = func() map[Language]struct{} {
	set := make(map[Language]struct{}, len(catalog))
	for _, lang := range catalog {
		set[lang] = struct{}{}
	}
	return set
}()

// Languages returns the full catalog in declaration order.
// The returned slice is a copy and safe to modify.
func Languages() []Language {
	out := make([]Language, len(catalog))
	copy(out, catalog)
	return out
}

// LanguageStrings returns the catalog as plain strings, in declaration
// order. This is the material for schema enums and prompt listings.
func LanguageStrings() []string {
	out := make([]string, len(catalog))
	for i, lang := range catalog {
		out[i] = string(lang)
	}
	return out
}

// Valid reports whether the language is a catalog member.
func (l Language) Valid() bool {
	_, ok := catalogSet[l]
	return ok
}

// String returns the catalog identifier.
func (l Language) String() string {
	return string(l)
}

// ParseLanguage normalizes a raw value to a catalog language.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseLanguage(raw string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(raw)))
	if !lang.Valid() {
		return "", fmt.Errorf("%q: %w", raw, ErrLanguageNotRecognized)
	}
	return lang, nil
}

// schemaEnumValues resolves an enum struct-tag reference to its values.
// Response types annotate fields with `enum:"language"` to constrain the
// generated JSON schema to the catalog.
func schemaEnumValues(name string) []string {
	switch name {
	case "language":
		return LanguageStrings()
	default:
		return nil
	}
}
