package calendar

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/closermetrix/engine/pkg/config"
	"github.com/closermetrix/engine/pkg/models"
)

// Prospect is the result of the three-tier extraction fallback (§4.3).
type Prospect struct {
	Email string
	Name  string
}

var (
	angleBracketEmailRe = regexp.MustCompile(`<[^<>]*@[^<>]*>`)
	parenContentRe      = regexp.MustCompile(`\(([^()]*)\)`)
	bracketContentRe    = regexp.MustCompile(`\[([^\[\]]*)\]`)
	ordinalRe           = regexp.MustCompile(`(?i)\b\d+(st|nd|rd|th)\b`)
	hashNumberRe        = regexp.MustCompile(`(?i)(#\d+|\bno\.?\s*\d+\b)`)
	separatorRe         = regexp.MustCompile(`[-:|_/]+`)
	whitespaceRe        = regexp.MustCompile(`\s+`)
	wordRe              = regexp.MustCompile(`^[A-Za-z]+$`)
)

// ExtractProspect resolves the prospect for a calendar event using the
// three-tier fallback of §4.3: attendee lookup, then title parsing, then
// bracketed-content fallback, then email-derived name as a last resort.
func ExtractProspect(event *CanonicalCalendarEvent, closer *models.Closer, tenant *models.Tenant, cfg *config.TitleParsing) Prospect {
	// Tier 1: first non-organizer, non-closer attendee with an email.
	for _, a := range event.Attendees {
		if a.IsOrganizer || a.Email == "" {
			continue
		}
		if strings.EqualFold(a.Email, closer.WorkEmail) || strings.EqualFold(a.Email, event.OrganizerEmail) {
			continue
		}
		name := a.Name
		if name == "" {
			if parsed, ok := extractFromTitle(event.Title, closer, tenant, cfg); ok {
				name = parsed
			} else {
				name = nameFromEmail(a.Email)
			}
		}
		return Prospect{Email: a.Email, Name: name}
	}

	// Tier 2: title parsing.
	if name, ok := extractFromTitle(event.Title, closer, tenant, cfg); ok {
		return Prospect{Email: models.UnknownProspectEmail, Name: name}
	}

	// Tier 3: parenthesized/bracketed content.
	if name, ok := extractFromBrackets(event.Title); ok {
		return Prospect{Email: models.UnknownProspectEmail, Name: name}
	}

	// Tier 4: no name-like residue anywhere; leave name blank, email unknown.
	return Prospect{Email: models.UnknownProspectEmail, Name: ""}
}

// extractFromTitle implements tier 2: strip provider prefixes, bracketed
// content, the closer's name, filter phrases, filler words, ordinals and
// separators, then test whether what remains looks like a 1-6 word name.
func extractFromTitle(title string, closer *models.Closer, tenant *models.Tenant, cfg *config.TitleParsing) (string, bool) {
	s := title

	s = stripProviderPrefixes(s, cfg.ProviderPrefixes)
	s = angleBracketEmailRe.ReplaceAllString(s, " ")
	s = parenContentRe.ReplaceAllString(s, " ")
	s = bracketContentRe.ReplaceAllString(s, " ")
	s = stripWholeWordPhrase(s, closer.Name)
	s = stripCompoundClose(s, closer.FirstName(), cfg.CompoundStripPrefixes)
	s = stripFilterPhrases(s, tenant.FilterPhrases)
	s = stripFillerWords(s, cfg.FillerWords)
	s = ordinalRe.ReplaceAllString(s, " ")
	s = hashNumberRe.ReplaceAllString(s, " ")
	s = separatorRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if !looksLikeName(s) {
		return "", false
	}

	words := strings.Fields(s)
	if len(words) == 1 && strings.EqualFold(words[0], closer.FirstName()) {
		// Ambiguous: the only residual word is the closer's own first name.
		return "", false
	}

	return titleCaseName(words), true
}

// extractFromBrackets implements tier 3: look at the saved parenthesized
// and bracketed chunks and return the first one that looks name-like.
func extractFromBrackets(title string) (string, bool) {
	for _, m := range parenContentRe.FindAllStringSubmatch(title, -1) {
		if looksLikeName(strings.TrimSpace(m[1])) {
			return titleCaseName(strings.Fields(m[1])), true
		}
	}
	for _, m := range bracketContentRe.FindAllStringSubmatch(title, -1) {
		if looksLikeName(strings.TrimSpace(m[1])) {
			return titleCaseName(strings.Fields(m[1])), true
		}
	}
	return "", false
}

// nameFromEmail implements tier 4: split the local part of an email on
// {., _, -, +} and title-case each non-numeric segment.
func nameFromEmail(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		local = email[:i]
	}
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.Atoi(p); err == nil {
			continue
		}
		words = append(words, p)
	}
	if len(words) == 0 {
		return ""
	}
	return titleCaseName(words)
}

func stripProviderPrefixes(s string, prefixes []string) string {
	sorted := append([]string(nil), prefixes...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for {
		trimmed := strings.TrimSpace(s)
		matched := false
		for _, p := range sorted {
			if len(trimmed) >= len(p) && strings.EqualFold(trimmed[:len(p)], p) {
				trimmed = trimmed[len(p):]
				matched = true
			}
		}
		s = trimmed
		if !matched {
			break
		}
	}
	return s
}

// stripWholeWordPhrase removes phrase from s only where it appears as a
// run of whole words (not as a parts-level match), so "Tyler Ray"
// doesn't strip "Tyler" out of "Tyler Smith" (§4.3).
func stripWholeWordPhrase(s, phrase string) string {
	if phrase == "" {
		return s
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
	return re.ReplaceAllString(s, " ")
}

// stripCompoundClose removes "w/ <first>" / "with <first>" when not
// immediately followed by another letter-word (a likely surname), which
// would make the match ambiguous (§4.3).
func stripCompoundClose(s, firstName string, prefixes []string) string {
	if firstName == "" {
		return s
	}
	for _, p := range prefixes {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p) + `\s+` + regexp.QuoteMeta(firstName) + `\b(\s+[A-Za-z])?`)
		s = re.ReplaceAllStringFunc(s, func(m string) string {
			if re.FindStringSubmatch(m)[1] != "" {
				return m
			}
			return " "
		})
	}
	return s
}

// stripFilterPhrases removes tenant filter phrases, longest first so a
// longer phrase isn't partially shadowed by a shorter one sharing a
// prefix (§4.3).
func stripFilterPhrases(s string, phrases []string) string {
	sorted := append([]string(nil), phrases...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for _, p := range sorted {
		if p == "" || p == models.FilterWildcard {
			continue
		}
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(p))
		s = re.ReplaceAllString(s, " ")
	}
	return s
}

// stripFillerWords removes generic scheduling filler words, whole-word,
// case-insensitive. "&" is never filler — it connects couple names.
func stripFillerWords(s string, fillers []string) string {
	for _, f := range fillers {
		if f == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(f) + `\b`)
		s = re.ReplaceAllString(s, " ")
	}
	return s
}

// looksLikeName reports whether s is 1-6 words, each a letter-word, "&",
// or a number.
func looksLikeName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	words := strings.Fields(s)
	if len(words) == 0 || len(words) > 6 {
		return false
	}
	for _, w := range words {
		if w == "&" {
			continue
		}
		if wordRe.MatchString(w) {
			continue
		}
		if _, err := strconv.Atoi(w); err == nil {
			continue
		}
		return false
	}
	return true
}

func titleCaseName(words []string) string {
	out := make([]string, len(words))
	for i, w := range words {
		if w == "&" {
			out[i] = w
			continue
		}
		if _, err := strconv.Atoi(w); err == nil {
			out[i] = w
			continue
		}
		out[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(out, " ")
}
