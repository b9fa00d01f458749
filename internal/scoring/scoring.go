// Package scoring turns one call's transcript, extracted fields, and
// engagement metrics into a 0-100 lead score plus a qualification bucket.
//
// Five weighted factors are computed independently and combined as a
// weighted average. Unlike extraction and evaluation, errors here propagate:
// a failed analysis is a terminal per-call failure the caller must isolate.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"voice-leads-go/internal/config"
	"voice-leads-go/internal/types"
)

const (
	BucketHotLead       = "hot_lead"
	BucketQualified     = "qualified"
	BucketNeedsFollowup = "needs_followup"
	BucketUnqualified   = "unqualified"
)

// Input is everything the engine needs for one call.
type Input struct {
	Transcript  string
	Responses   []types.ExtractedResponse
	DurationSec int
	Cost        float64
}

// Factor is one independently scored signal.
type Factor struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Weight int    `json:"weight"`
	Reason string `json:"reason"`
}

type Intent struct {
	Category   string  `json:"category"` // buying | selling | unknown
	Confidence float64 `json:"confidence"`
}

type Topics struct {
	KeyTopics  []string `json:"key_topics"`
	Objections []string `json:"objections"`
	PainPoints []string `json:"pain_points"`
	Interests  []string `json:"interests"`
}

// Analysis is the full scoring result for one call.
type Analysis struct {
	Score     int      `json:"score"`
	Bucket    string   `json:"bucket"`
	Sentiment int      `json:"sentiment"` // -1, 0, +1
	Intent    Intent   `json:"intent"`
	Topics    Topics   `json:"topics"`
	Factors   []Factor `json:"factors"`
}

type Engine struct {
	cfg config.ScoringConfig
}

func NewEngine(cfg config.ScoringConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Analyze scores one call. The score is always an integer in [0,100];
// empty transcripts and zero responses are valid input and floor at the
// factor base scores.
func (e *Engine) Analyze(in Input) (Analysis, error) {
	if in.DurationSec < 0 {
		return Analysis{}, fmt.Errorf("negative duration %d", in.DurationSec)
	}

	lower := strings.ToLower(in.Transcript)

	factors := []Factor{
		contactFactor(in.Responses, e.cfg.ContactWeight),
		intentFactor(lower, e.cfg.IntentWeight),
		engagementFactor(in, e.cfg.EngagementWeight),
		qualificationFactor(lower, in.Responses, e.cfg.QualificationWeight),
		urgencyFactor(lower, e.cfg.UrgencyWeight),
	}

	weightSum := 0
	weighted := 0
	for _, f := range factors {
		weightSum += f.Weight
		weighted += f.Score * f.Weight
	}
	if weightSum == 0 {
		return Analysis{}, fmt.Errorf("factor weights sum to zero")
	}
	score := clamp(int(math.Round(float64(weighted)/float64(weightSum))), 0, 100)

	sentiment := sentimentOf(lower)
	intent := intentOf(lower)

	return Analysis{
		Score:     score,
		Bucket:    bucket(score, sentiment, intent.Confidence),
		Sentiment: sentiment,
		Intent:    intent,
		Topics:    topicsOf(lower),
		Factors:   factors,
	}, nil
}

func bucket(score, sentiment int, intentConfidence float64) string {
	switch {
	case score >= 80 && sentiment > 0 && intentConfidence > 0.7:
		return BucketHotLead
	case score >= 60 && sentiment >= 0:
		return BucketQualified
	case score >= 40:
		return BucketNeedsFollowup
	default:
		return BucketUnqualified
	}
}

// contactFactor: name +40, phone +35, email +25 among extracted fields.
func contactFactor(responses []types.ExtractedResponse, weight int) Factor {
	var hasName, hasPhone, hasEmail bool
	for _, r := range responses {
		f := strings.ToLower(r.Field)
		switch {
		case strings.Contains(f, "email"):
			hasEmail = true
		case strings.Contains(f, "phone"):
			hasPhone = true
		case strings.Contains(f, "name"):
			hasName = true
		}
	}
	score := 0
	var got []string
	if hasName {
		score += 40
		got = append(got, "name")
	}
	if hasPhone {
		score += 35
		got = append(got, "phone")
	}
	if hasEmail {
		score += 25
		got = append(got, "email")
	}
	reason := "no contact details captured"
	if len(got) > 0 {
		reason = "captured " + strings.Join(got, ", ")
	}
	return Factor{Name: "contact_completeness", Score: clamp(score, 0, 100), Weight: weight, Reason: reason}
}

// intentFactor: base 20; buying +30, selling +30, urgency +20 when a
// category has at least one hit; negative-intent phrases subtract 20.
func intentFactor(lower string, weight int) Factor {
	score := 20
	var hits []string
	if countMatches(lower, buyingKeywords) > 0 {
		score += 30
		hits = append(hits, "buying")
	}
	if countMatches(lower, sellingKeywords) > 0 {
		score += 30
		hits = append(hits, "selling")
	}
	if countMatches(lower, urgencyKeywords) > 0 {
		score += 20
		hits = append(hits, "urgency")
	}
	if countMatches(lower, negativeIntentKeywords) > 0 {
		score -= 20
		hits = append(hits, "negative")
	}
	reason := "no intent signals"
	if len(hits) > 0 {
		reason = "signals: " + strings.Join(hits, ", ")
	}
	return Factor{Name: "intent_strength", Score: clamp(score, 0, 100), Weight: weight, Reason: reason}
}

// engagementFactor: duration tiers, response-count tiers, and a small bonus
// per non-trivial answer.
func engagementFactor(in Input, weight int) Factor {
	score := 0
	switch {
	case in.DurationSec >= 300:
		score += 30
	case in.DurationSec >= 120:
		score += 20
	case in.DurationSec >= 60:
		score += 10
	}
	n := len(in.Responses)
	switch {
	case n >= 5:
		score += 25
	case n >= 3:
		score += 15
	case n >= 1:
		score += 10
	}
	quality := 0
	for _, r := range in.Responses {
		if len(strings.TrimSpace(r.Answer)) >= 3 {
			quality += 5
		}
	}
	if quality > 20 {
		quality = 20
	}
	score += quality
	reason := fmt.Sprintf("%ds call, %d responses", in.DurationSec, n)
	return Factor{Name: "engagement", Score: clamp(score, 0, 100), Weight: weight, Reason: reason}
}

// qualificationFactor: base 30; budget +25, urgent timeline +20 or future
// timeline +10, property type +15, location +10.
func qualificationFactor(lower string, responses []types.ExtractedResponse, weight int) Factor {
	fields := map[string]string{}
	for _, r := range responses {
		fields[strings.ToLower(r.Field)] = strings.ToLower(r.Answer)
	}

	score := 30
	var got []string
	if _, ok := fields["budget"]; ok {
		score += 25
		got = append(got, "budget")
	}
	if tl, ok := fields["timeline"]; ok {
		if countMatches(tl, urgencyKeywords) > 0 {
			score += 20
			got = append(got, "urgent timeline")
		} else {
			score += 10
			got = append(got, "timeline")
		}
	}
	if _, ok := fields["property_type"]; ok {
		score += 15
		got = append(got, "property type")
	}
	if _, ok := fields["location"]; ok {
		score += 10
		got = append(got, "location")
	}
	reason := "no qualification specifics"
	if len(got) > 0 {
		reason = "specified " + strings.Join(got, ", ")
	}
	return Factor{Name: "qualification_specificity", Score: clamp(score, 0, 100), Weight: weight, Reason: reason}
}

// urgencyFactor: base 20; high-urgency phrases +50, else medium (any
// timeline-ish phrase) +25, else low-urgency phrases -10.
func urgencyFactor(lower string, weight int) Factor {
	score := 20
	reason := "no urgency signal"
	switch {
	case countMatches(lower, urgencyKeywords) > 0:
		score += 50
		reason = "high urgency language"
	case strings.Contains(lower, "next month") || strings.Contains(lower, "few months") || strings.Contains(lower, "soon"):
		score += 25
		reason = "medium-term timeline"
	case countMatches(lower, lowUrgencyKeywords) > 0:
		score -= 10
		reason = "low urgency language"
	}
	return Factor{Name: "urgency", Score: clamp(score, 0, 100), Weight: weight, Reason: reason}
}

// sentimentOf compares positive vs negative word counts: +1, 0, or -1.
func sentimentOf(lower string) int {
	pos := countMatches(lower, positiveWords)
	neg := countMatches(lower, negativeWords)
	switch {
	case pos > neg:
		return 1
	case neg > pos:
		return -1
	default:
		return 0
	}
}

// intentOf picks the dominant direction and a confidence that grows with
// the number of distinct keyword hits.
func intentOf(lower string) Intent {
	buy := countMatches(lower, buyingKeywords)
	sell := countMatches(lower, sellingKeywords)
	urgent := countMatches(lower, urgencyKeywords)

	category := "unknown"
	switch {
	case buy > 0 && buy >= sell:
		category = "buying"
	case sell > 0:
		category = "selling"
	}

	total := buy + sell + urgent
	if category == "unknown" {
		return Intent{Category: category, Confidence: 0}
	}
	conf := 0.3 + 0.2*float64(total)
	if conf > 0.95 {
		conf = 0.95
	}
	return Intent{Category: category, Confidence: conf}
}

func topicsOf(lower string) Topics {
	return Topics{
		KeyTopics:  matchCategories(lower, keyTopicKeywords),
		Objections: matchCategories(lower, objectionKeywords),
		PainPoints: matchCategories(lower, painPointKeywords),
		Interests:  matchCategories(lower, interestKeywords),
	}
}

// matchCategories returns the distinct categories whose keywords appear,
// in stable (keyword-sorted) order.
func matchCategories(lower string, table map[string]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, kw := range sortedKeys(table) {
		cat := table[kw]
		if seen[cat] || !strings.Contains(lower, kw) {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func countMatches(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
