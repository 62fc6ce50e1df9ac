// Package names derives binding-facing and native-facing identifiers.
package names

var keywords = map[string]struct{}{}

func init() {
	for _, k := range []string{
		// binding language
		"class", "cover", "interface", "implement", "func", "abstract",
		"extends", "from", "this", "super", "new", "const", "final", "static",
		"include", "import", "use", "extern", "inline", "proto", "break",
		"continue", "fallthrough", "operator", "if", "else", "for", "while",
		"do", "switch", "case", "as", "in", "version", "return", "true",
		"false", "null", "default", "match",
		// native language
		"auto", "char", "double", "enum", "float", "goto", "int", "long",
		"register", "short", "signed", "struct", "typedef", "union",
		"unsigned", "void", "volatile", "_Imaginary", "_Complex", "_Bool",
		"restrict",
		// reserved by the runtime
		"Func", "NULL", "TRUE", "FALSE", "bool",
	} {
		keywords[k] = struct{}{}
	}
}

// IsKeyword reports whether s is reserved in either language.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}
