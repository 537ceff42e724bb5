package extractor

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

const (
	// MatcherAssisted selects the AI-assisted strategy when configured.
	MatcherAssisted = "ai"

	ReasonPattern  = "regex-match"
	ReasonAssisted = "ai-extract"

	previewLimit = 160
)

// orderCodePattern recognises human-entered order codes such as OS-1234:
// 2-5 uppercase letters, a hyphen, 3-6 digits.
var orderCodePattern = regexp.MustCompile(`\b[A-Z]{2,5}-[0-9]{3,6}\b`)

// Parsed carries extraction metadata returned alongside the match.
type Parsed map[string]any

// Match is a recognised order code and the strategy that produced it.
type Match struct {
	OrderCode string `json:"order_code"`
	Reason    string `json:"reason"`
}

// AIExtraction is the structured reply expected from the assisted strategy.
type AIExtraction struct {
	OrderCode    *string `json:"order_code"`
	CustomerName *string `json:"customer_name"`
	Phone        *string `json:"phone"`
}

// AIClient defines the external text-extraction call used by the assisted
// strategy.
type AIClient interface {
	ExtractOrder(ctx context.Context, text string) (*AIExtraction, error)
}

// Extractor produces a candidate order code from free text. The pattern
// strategy is always available and doubles as the fallback; the assisted
// strategy runs only when requested and configured.
type Extractor struct {
	ai     AIClient
	logger *slog.Logger
}

// New creates an Extractor. A nil AIClient disables the assisted strategy.
func New(ai AIClient, logger *slog.Logger) *Extractor {
	return &Extractor{
		ai:     ai,
		logger: logger,
	}
}

// HasAssistedExtraction reports whether the assisted strategy is configured.
func (e *Extractor) HasAssistedExtraction() bool {
	return e.ai != nil
}

// Extract runs the strategy selected by matcher. A nil Match means no code
// was recognised. Assisted-strategy failure never surfaces to the caller; it
// degrades to the pattern strategy.
func (e *Extractor) Extract(ctx context.Context, text, matcher, lang string) (Parsed, *Match) {
	if matcher == MatcherAssisted && e.HasAssistedExtraction() {
		if parsed, match, ok := e.extractAssisted(ctx, text, matcher, lang); ok {
			return parsed, match
		}
	}

	return e.extractPattern(text, matcher, lang)
}

// extractPattern scans the uppercased input for the first order-code shaped
// substring.
func (e *Extractor) extractPattern(text, matcher, lang string) (Parsed, *Match) {
	parsed := Parsed{
		"raw_preview": preview(text),
		"matcher":     matcher,
		"lang":        lang,
	}

	code := orderCodePattern.FindString(strings.ToUpper(text))
	if code == "" {
		return parsed, nil
	}

	return parsed, &Match{OrderCode: code, Reason: ReasonPattern}
}

// extractAssisted forwards the raw text to the external service. The third
// return value reports whether the call succeeded; on failure the caller
// falls back to the pattern strategy.
func (e *Extractor) extractAssisted(ctx context.Context, text, matcher, lang string) (Parsed, *Match, bool) {
	result, err := e.ai.ExtractOrder(ctx, text)
	if err != nil {
		e.logger.Warn("assisted_extract_failed", "error", err)
		return nil, nil, false
	}

	parsed := Parsed{
		"order_code":    result.OrderCode,
		"customer_name": result.CustomerName,
		"phone":         result.Phone,
		"matcher":       matcher,
		"lang":          lang,
	}

	if result.OrderCode == nil || *result.OrderCode == "" {
		return parsed, nil, true
	}

	return parsed, &Match{OrderCode: *result.OrderCode, Reason: ReasonAssisted}, true
}

// preview truncates the original text to the first 160 characters.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewLimit])
}
