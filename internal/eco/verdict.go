package eco

import (
	"strings"
)

// Verdict is the outcome of checking a product's eco claim.
type Verdict struct {
	Verified        bool     `json:"verified"`
	Label           string   `json:"label"`
	Confidence      float64  `json:"confidence"`
	Reason          string   `json:"reason,omitempty"`
	PotentialLabels []string `json:"potentialLabels,omitempty"`
}

// VerifyRequest carries the product fields the classifier looks at. ImageURL
// points at the product photo the remote classifier grades; the keyword
// fallback works from the text fields only.
type VerifyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ClaimLabel  string `json:"claimLabel"`
	ImageURL    string `json:"imageUrl"`
}

// Keyword vocabulary used when no remote classifier is configured. Lowercase.
var ecoKeywords = []string{
	"organic", "recycled", "recyclable", "bamboo", "biodegradable",
	"compostable", "sustainable", "eco-friendly", "hemp", "upcycled",
	"solar", "reusable", "plastic-free", "fair trade", "natural fiber",
}

// EvaluateClaim is the offline fallback classifier. It scores the claim by
// keyword evidence in the product text: the label itself must look like an
// eco term, and the description has to back it up with at least one more
// keyword. Confidence grows with the amount of supporting evidence.
func EvaluateClaim(req VerifyRequest) Verdict {
	text := strings.ToLower(req.Name + " " + req.Description)
	label := strings.ToLower(strings.TrimSpace(req.ClaimLabel))

	labelMatches := false
	matches := 0
	var found []string
	for _, kw := range ecoKeywords {
		if strings.Contains(label, kw) {
			labelMatches = true
		}
		if strings.Contains(text, kw) {
			matches++
			found = append(found, kw)
		}
	}

	confidence := 0.2 * float64(matches)
	if confidence > 1 {
		confidence = 1
	}

	verified := labelMatches && matches >= 1
	if !verified && confidence > 0.5 {
		confidence = 0.5
	}

	reason := "claim label is not a recognised eco term"
	if labelMatches && verified {
		reason = "claim backed by product text"
	} else if labelMatches {
		reason = "no supporting evidence in product text"
	}

	return Verdict{
		Verified:        verified,
		Label:           strings.TrimSpace(req.ClaimLabel),
		Confidence:      confidence,
		Reason:          reason,
		PotentialLabels: found,
	}
}
