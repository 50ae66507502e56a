package backoffice

import (
	"context"
	"errors"
	"strings"
)

// ErrTranslationMissing is returned when no locale candidate has the key.
var ErrTranslationMissing = errors.New("backoffice: translation missing")

// TranslationService exposes locale-aware translation helpers. Implementations
// may interpolate args however they like.
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

// MapTranslator serves translations from an in-memory table keyed by locale
// and then message key.
type MapTranslator map[string]map[string]string

// Translate implements TranslationService.
func (m MapTranslator) Translate(_ context.Context, key, locale string, _ map[string]any) (string, error) {
	for _, candidate := range localeCandidates(locale) {
		for name, messages := range m {
			if !strings.EqualFold(name, candidate) {
				continue
			}
			if value := messages[key]; value != "" {
				return value, nil
			}
		}
	}
	return "", ErrTranslationMissing
}

var sectionTitles = map[Section]string{
	SectionDashboard:    "Dashboard Overview",
	SectionProducts:     "Product Management",
	SectionInventory:    "Inventory Management",
	SectionUsers:        "User Management",
	SectionTransactions: "Transactions",
	SectionApplicants:   "Applicant Verification",
}

// SectionTitle returns the page title for a section in the viewer locale.
// Unknown sections use the dashboard title.
func SectionTitle(ctx context.Context, svc TranslationService, section Section) string {
	fallback, ok := sectionTitles[section]
	if !ok {
		section = SectionDashboard
		fallback = sectionTitles[SectionDashboard]
	}
	locale := ViewerFromContext(ctx).Locale
	return translateOrFallback(ctx, svc, "backoffice.section."+string(section)+".title", locale, fallback, nil)
}

// ResolveLocalizedValue selects the best translation for the provided locale and falls back to the supplied value.
// Keys are matched case-insensitively, and language-region pairs (`es-mx`) fall back to their base language.
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	return fallback
}

func localeCandidates(locale string) []string {
	locale = strings.TrimSpace(strings.ToLower(strings.ReplaceAll(locale, "_", "-")))
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.Index(locale, "-"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	return append(candidates, "default")
}

func translateOrFallback(ctx context.Context, svc TranslationService, key, locale, fallback string, params map[string]any) string {
	if svc != nil {
		if translated, err := svc.Translate(ctx, key, locale, params); err == nil && translated != "" {
			return translated
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}
