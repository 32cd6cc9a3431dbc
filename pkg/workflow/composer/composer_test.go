package composer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"clinic-assist-be/pkg/llm"
	"clinic-assist-be/pkg/workflow/retrieval"
)

type fakeRetriever struct {
	passages []retrieval.Passage
	calls    int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _, _ string, _ int) []retrieval.Passage {
	f.calls++
	return f.passages
}

type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return f.reply, f.err
}

func (f *fakeProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func passage(rank int, content, source string) retrieval.Passage {
	return retrieval.Passage{Content: content, Source: source, Rank: rank}
}

func TestComposeEmptyRetrievalSkipsGeneration(t *testing.T) {
	ret := &fakeRetriever{}
	prov := &fakeProvider{reply: "should never be used"}
	c := NewComposer(ret, prov, 0, discardLogger())

	text, sources := c.Compose(context.Background(), "do you offer braces?", "bot-1")

	if text != NoInformationMessage {
		t.Errorf("text = %q, want no-information message", text)
	}
	if sources == nil || len(sources) != 0 {
		t.Errorf("sources = %v, want empty non-nil slice", sources)
	}
	if prov.calls != 0 {
		t.Errorf("generation calls = %d, want 0", prov.calls)
	}
}

func TestComposeStripsSourceMarkers(t *testing.T) {
	ret := &fakeRetriever{passages: []retrieval.Passage{
		passage(1, "Braces cost $3000.", "pricing.pdf"),
		passage(2, "Treatment takes 18 months.", "faq.md"),
	}}
	prov := &fakeProvider{reply: "Braces cost $3000 [Source: pricing.pdf] and take 18 months. [Source: faq.md] [Source: faq.md]"}
	c := NewComposer(ret, prov, 0, discardLogger())

	text, sources := c.Compose(context.Background(), "how much are braces?", "bot-1")

	if strings.Contains(text, "[Source:") {
		t.Errorf("marker leaked into user text: %q", text)
	}
	want := []string{"pricing.pdf", "faq.md"}
	if len(sources) != len(want) {
		t.Fatalf("sources = %v, want %v", sources, want)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("sources[%d] = %q, want %q", i, sources[i], want[i])
		}
	}
}

func TestComposeGenerationFailure(t *testing.T) {
	ret := &fakeRetriever{passages: []retrieval.Passage{passage(1, "text", "doc")}}
	prov := &fakeProvider{err: errors.New("model offline")}
	c := NewComposer(ret, prov, 0, discardLogger())

	text, sources := c.Compose(context.Background(), "question", "bot-1")

	if text != generationFailedMessage {
		t.Errorf("text = %q, want generation failed message", text)
	}
	if len(sources) != 0 {
		t.Errorf("sources = %v, want empty", sources)
	}
}

func TestComposeCachesRepeatedQuestions(t *testing.T) {
	ret := &fakeRetriever{passages: []retrieval.Passage{passage(1, "We open at 9.", "hours.md")}}
	prov := &fakeProvider{reply: "We open at 9. [Source: hours.md]"}
	c := NewComposer(ret, prov, 0, discardLogger())

	first, _ := c.Compose(context.Background(), "When do you open?", "bot-1")
	second, _ := c.Compose(context.Background(), "  when do you open?  ", "bot-1")

	if first != second {
		t.Errorf("cached answer differs: %q vs %q", first, second)
	}
	if ret.calls != 1 {
		t.Errorf("retrieval calls = %d, want 1", ret.calls)
	}
	if prov.calls != 1 {
		t.Errorf("generation calls = %d, want 1", prov.calls)
	}
}

func TestComposeCacheScopedPerBot(t *testing.T) {
	ret := &fakeRetriever{passages: []retrieval.Passage{passage(1, "x", "d")}}
	prov := &fakeProvider{reply: "answer"}
	c := NewComposer(ret, prov, 0, discardLogger())

	c.Compose(context.Background(), "hours?", "bot-1")
	c.Compose(context.Background(), "hours?", "bot-2")

	if ret.calls != 2 {
		t.Errorf("retrieval calls = %d, want 2 for distinct scopes", ret.calls)
	}
}

func TestAnswerCacheStaysBounded(t *testing.T) {
	cache := newAnswerCache(5)

	for i := 0; i < 20; i++ {
		cache.put(fmt.Sprintf("q%d", i), cachedAnswer{text: "a"})
	}

	if got := cache.len(); got > 5 {
		t.Errorf("cache size = %d, want at most 5", got)
	}
}

func TestStripSourceMarkers(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantText  string
		wantCited []string
	}{
		{
			name:      "no markers",
			raw:       "Plain answer.",
			wantText:  "Plain answer.",
			wantCited: nil,
		},
		{
			name:      "empty marker dropped",
			raw:       "Answer. [Source: ]",
			wantText:  "Answer.",
			wantCited: nil,
		},
		{
			name:      "doubled markers deduplicate",
			raw:       "Fact. [Source: a.md][Source: a.md]",
			wantText:  "Fact.",
			wantCited: []string{"a.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, cited := stripSourceMarkers(tt.raw)
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if len(cited) != len(tt.wantCited) {
				t.Fatalf("cited = %v, want %v", cited, tt.wantCited)
			}
			for i := range cited {
				if cited[i] != tt.wantCited[i] {
					t.Errorf("cited[%d] = %q, want %q", i, cited[i], tt.wantCited[i])
				}
			}
		})
	}
}
