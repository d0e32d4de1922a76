package verify

import (
	"fmt"
	"strings"
)

// Context carries the content metadata handed to the research prompt
// so the service can judge the claim in situ.
type Context struct {
	Platform    string
	CreatorName string
	Title       string
}

// BuildResearchPrompt constructs the structured research request for
// one unit of text (a single claim or the whole content).
func BuildResearchPrompt(text string, vctx *Context) string {
	var b strings.Builder

	b.WriteString(`You are a fact-checking researcher with web search access. Investigate the following statement and determine its accuracy.

RULES:
1. Search for current, authoritative reporting and primary sources.
2. Conclude with exactly one status from this list: verified, false, misleading, unverifiable.
3. Cite every source you rely on as a full URL.
4. If the evidence is insufficient, say "unverifiable" - do not guess.
5. Keep the analysis under 300 words.

`)

	if vctx != nil {
		if vctx.Platform != "" {
			fmt.Fprintf(&b, "Platform: %s\n", vctx.Platform)
		}
		if vctx.CreatorName != "" {
			fmt.Fprintf(&b, "Creator: %s\n", vctx.CreatorName)
		}
		if vctx.Title != "" {
			fmt.Fprintf(&b, "Post title: %s\n", vctx.Title)
		}
	}

	fmt.Fprintf(&b, "\nStatement to verify:\n%s\n", text)

	return b.String()
}

// BuildClassifyPrompt asks the reasoning service to reduce a research
// response to a single status line.
func BuildClassifyPrompt(responseText string) string {
	return fmt.Sprintf(`Classify the following fact-check analysis. Reply with exactly two lines:
status: one of verified, true, false, misleading, unverifiable, requires_verification
confidence: a number between 0 and 1

Analysis:
%s
`, responseText)
}

// BuildDomainPrompt asks for a 1-10 credibility rating of a domain
func BuildDomainPrompt(domain string) string {
	return fmt.Sprintf(`Rate the credibility of the news/information source with domain %q on a scale of 1 to 10:
10 = wire services, peer-reviewed journals, official government statistics
8-9 = major newspapers of record, public health authorities
6-7 = mainstream outlets with editorial standards
4-5 = partisan outlets, tabloids
2-3 = conspiracy or propaganda outlets
1 = fabricated content, satire presented as news

Reply with a single integer only.`, domain)
}
