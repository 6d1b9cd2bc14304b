package capability

import (
	"regexp"
	"strings"

	"marvin/internal/logging"
)

// Tag syntaxes the extractor accepts, evaluated as independent passes:
//
//	<capability name="memory" action="recall" query="pizza" />
//	<capability name="memory" action="remember">user likes pizza</capability>
//	<recall>pizza</recall>
//
// The simple form resolves the tag name against the registry's supported
// action verbs; tags that resolve to nothing are ordinary prose and are
// ignored.
var (
	selfClosingRx = regexp.MustCompile(`<capability\s+([^>]*?)/>`)
	contentRx     = regexp.MustCompile(`(?s)<capability\s+([^>]*?)>(.*?)</capability>`)
	simpleRx      = regexp.MustCompile(`(?s)<([a-zA-Z][a-zA-Z0-9_]*)((?:\s+[^>]*?)?)>(.*?)</([a-zA-Z][a-zA-Z0-9_]*)>`)
)

// Extractor finds capability invocations in raw text. Extraction is
// synchronous and pure aside from the registry reverse lookup used by the
// simple tag form. Overlapping passes may yield duplicates; downstream
// dispatch is safe to repeat, so no cross-pass deduplication is attempted.
type Extractor struct {
	registry *Registry
}

// NewExtractor creates an extractor backed by the given registry.
func NewExtractor(reg *Registry) *Extractor {
	return &Extractor{registry: reg}
}

// Extract returns every invocation found in text, in left-to-right pass
// order, with Priority set to each invocation's ordinal position.
// Fragments that merely resemble tags are skipped silently: model output
// routinely contains tag-like prose and extraction failures are not errors.
func (e *Extractor) Extract(text string) []ExtractedCapability {
	var found []Invocation
	found = append(found, e.extractSelfClosing(text)...)
	found = append(found, e.extractWithContent(text)...)
	found = append(found, e.extractSimple(text)...)

	out := make([]ExtractedCapability, 0, len(found))
	for i, inv := range found {
		out = append(out, ExtractedCapability{Invocation: inv, Priority: i})
	}
	if len(out) > 0 {
		logging.ExtractionDebug("Extracted %d invocation(s) from %d bytes of text", len(out), len(text))
	}
	return out
}

// ExtractAll runs extraction over several text sources and concatenates the
// results in argument order, re-numbering priorities across the whole
// batch. Callers pass user text before model text so user intent wins ties.
func (e *Extractor) ExtractAll(texts ...string) []ExtractedCapability {
	var out []ExtractedCapability
	for _, text := range texts {
		for _, ec := range e.Extract(text) {
			ec.Priority = len(out)
			out = append(out, ec)
		}
	}
	return out
}

// extractSelfClosing handles the attribute form: <capability ... />.
func (e *Extractor) extractSelfClosing(text string) []Invocation {
	var invs []Invocation
	for _, m := range selfClosingRx.FindAllStringSubmatch(text, -1) {
		if inv, ok := buildInvocation(m[1], ""); ok {
			invs = append(invs, inv)
		}
	}
	return invs
}

// extractWithContent handles the content form:
// <capability ...>free text</capability>.
func (e *Extractor) extractWithContent(text string) []Invocation {
	var invs []Invocation
	for _, m := range contentRx.FindAllStringSubmatch(text, -1) {
		// A self-closing tag paired with a later </capability> is the
		// attribute form, already handled by the other pass.
		if strings.HasSuffix(strings.TrimSpace(m[1]), "/") {
			continue
		}
		if inv, ok := buildInvocation(m[1], strings.TrimSpace(m[2])); ok {
			invs = append(invs, inv)
		}
	}
	return invs
}

// extractSimple handles bare tags whose name matches a registered action
// verb, e.g. <recall>pizza</recall> when some capability supports "recall".
func (e *Extractor) extractSimple(text string) []Invocation {
	var invs []Invocation
	for _, m := range simpleRx.FindAllStringSubmatch(text, -1) {
		tag, attrText, inner, closing := m[1], m[2], m[3], m[4]
		if tag != closing || tag == "capability" {
			continue
		}
		capName, ok := e.registry.FindCapabilityByAction(tag)
		if !ok {
			// Prose that happens to look like a tag.
			continue
		}

		params := make(map[string]string)
		if strings.TrimSpace(attrText) != "" {
			var err error
			params, err = parseAttributes(attrText)
			if err != nil {
				logging.ExtractionDebug("Skipping simple tag <%s>: %v", tag, err)
				continue
			}
		}

		params, content := normalizeParams(params, strings.TrimSpace(inner))
		invs = append(invs, Invocation{
			Name:    capName,
			Action:  tag,
			Params:  params,
			Content: content,
		})
	}
	return invs
}

// buildInvocation scans attribute text into a canonical invocation.
// Returns false for fragments missing name or action, or with attribute
// text that cannot be scanned; both are dropped without error.
func buildInvocation(attrText, content string) (Invocation, bool) {
	attrs, err := parseAttributes(attrText)
	if err != nil {
		logging.ExtractionDebug("Skipping capability tag: %v", err)
		return Invocation{}, false
	}

	name := attrs["name"]
	action := attrs["action"]
	if name == "" || action == "" {
		return Invocation{}, false
	}
	delete(attrs, "name")
	delete(attrs, "action")

	params, content := normalizeParams(attrs, content)
	return Invocation{Name: name, Action: action, Params: params, Content: content}, true
}

// StripTags removes capability markup from text so it is never shown to the
// user. Simple-alias tags are only removed when they resolve to a
// registered action verb.
func (e *Extractor) StripTags(text string) string {
	s := selfClosingRx.ReplaceAllString(text, "")
	s = contentRx.ReplaceAllString(s, "")
	s = simpleRx.ReplaceAllStringFunc(s, func(match string) string {
		m := simpleRx.FindStringSubmatch(match)
		if m[1] != m[4] {
			return match
		}
		if _, ok := e.registry.FindCapabilityByAction(m[1]); !ok {
			return match
		}
		return ""
	})
	return strings.TrimSpace(s)
}
