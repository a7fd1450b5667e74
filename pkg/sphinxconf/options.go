package sphinxconf

// ParseOptions controls the text → document direction.
type ParseOptions struct {
	// Strict turns a continuation pending at end of input into a syntax
	// error. The default (lenient) policy uses the last physical line as-is.
	Strict bool
}

// RenderOptions controls the document → text direction.
type RenderOptions struct {
	// Comment holds verbatim leading lines emitted before the first section.
	// Callers are expected to supply lines already prefixed with '#'.
	Comment []string
}
