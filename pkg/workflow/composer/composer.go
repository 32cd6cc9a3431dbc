package composer

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"clinic-assist-be/pkg/llm"
	"clinic-assist-be/pkg/workflow/retrieval"
)

// DefaultTopK is how many passages feed one answer when unconfigured.
const DefaultTopK = 3

const (
	// NoInformationMessage is returned when retrieval finds nothing; the
	// generation capability is not invoked in that case.
	NoInformationMessage = "I don't have any relevant information from the clinic's documents to answer that question. Please contact the clinic directly for specific information."

	generationFailedMessage = "I encountered an error while trying to answer from the clinic's information. Please try again later or contact support."
)

var sourceMarkerPattern = regexp.MustCompile(`\[Source:\s*([^\]]*)\]`)
var doubledSpacePattern = regexp.MustCompile(`[ \t]{2,}`)

// Composer builds grounded answers from retrieved passages. Repeated
// identical questions are served from a bounded exact-match cache.
type Composer struct {
	retriever retrieval.Retriever
	provider  llm.Provider
	cache     *answerCache
	topK      int
	logger    *log.Logger
}

func NewComposer(retriever retrieval.Retriever, provider llm.Provider, topK int, logger *log.Logger) *Composer {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Composer{
		retriever: retriever,
		provider:  provider,
		cache:     newAnswerCache(answerCacheCapacity),
		topK:      topK,
		logger:    logger,
	}
}

// Compose answers a question from the scope's indexed documents. Failures
// of the retrieval or generation capabilities are recovered locally into
// user-facing fallback text; the sources slice is always non-nil.
func (c *Composer) Compose(ctx context.Context, query string, scopeKey string) (string, []string) {
	cacheKey := scopeKey + "|" + strings.ToLower(strings.TrimSpace(query))
	if answer, ok := c.cache.get(cacheKey); ok {
		c.logger.Printf("[COMPOSER] Cache hit for %q", query)
		return answer.text, answer.sources
	}

	passages := c.retriever.Retrieve(ctx, query, scopeKey, c.topK)
	if len(passages) == 0 {
		// No generation call on empty retrieval: nothing to ground on.
		return NoInformationMessage, []string{}
	}

	prompt := buildPrompt(query, passages)

	raw, err := c.provider.Generate(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		c.logger.Printf("[COMPOSER] Generation failed: %v", err)
		return generationFailedMessage, []string{}
	}

	text, cited := stripSourceMarkers(raw)
	sources := collectSources(passages, cited)

	c.cache.put(cacheKey, cachedAnswer{text: text, sources: sources})

	return text, sources
}

func buildPrompt(query string, passages []retrieval.Passage) string {
	var b strings.Builder

	b.WriteString("You are a clinic assistant. Use *only* this context to answer:\n\n")
	for _, p := range passages {
		b.WriteString(fmt.Sprintf("%d. %s", p.Rank, p.Content))
		b.WriteString(fmt.Sprintf("  [Source: %s]\n\n", p.Source))
	}

	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\n")

	b.WriteString("Instructions:\n")
	b.WriteString("1. Use ONLY information from the provided documents to answer.\n")
	b.WriteString("2. Respond in **at most 2-3 sentences**.\n")
	b.WriteString("3. After each fact you cite, append its marker in the form [Source: <label>].\n")
	b.WriteString("4. If the question cannot be answered using the provided context, clearly state that you don't have that specific information.\n")

	return b.String()
}

// stripSourceMarkers removes every bracketed citation marker from the raw
// model output, returning the clean user-facing text and the distinct cited
// labels in order of first appearance. Doubled or empty markers collapse.
func stripSourceMarkers(raw string) (string, []string) {
	var cited []string
	seen := make(map[string]bool)

	for _, m := range sourceMarkerPattern.FindAllStringSubmatch(raw, -1) {
		label := strings.TrimSpace(m[1])
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		cited = append(cited, label)
	}

	text := sourceMarkerPattern.ReplaceAllString(raw, "")
	text = doubledSpacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), cited
}

// collectSources merges passage attribution with cited marker labels,
// keeping retrieval rank order and deduplicating.
func collectSources(passages []retrieval.Passage, cited []string) []string {
	sources := make([]string, 0, len(passages))
	seen := make(map[string]bool)

	for _, p := range passages {
		if p.Source == "" || seen[p.Source] {
			continue
		}
		seen[p.Source] = true
		sources = append(sources, p.Source)
	}
	for _, label := range cited {
		if !seen[label] {
			seen[label] = true
			sources = append(sources, label)
		}
	}
	return sources
}
