package offline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	domai "github.com/bryanwahyu/finsight-ai/internal/domain/ai"
)

// compile-time check terhadap port
var _ domai.Client = (*Client)(nil)

// Client is a deterministic, provider-free fallback used when no API key is
// configured. It scans the prompt for financial signals and composes a short
// narrative. It never calls the network; it only returns a string.
type Client struct{}

func NewClient() *Client { return &Client{} }

var moneyRe = regexp.MustCompile(`(?i)(?:\$|€|£|rp\s?)\s?[\d.,]+\s?(?:million|billion|mn|bn|k|m|b)?`)

// topics and the phrasing used when a topic is present in the document
var topics = []struct {
	keyword string
	note    string
}{
	{"revenue", "revenue figures are present and should anchor the summary"},
	{"profit", "profitability is discussed; compare it against the prior period"},
	{"loss", "losses are mentioned; flag the drivers behind them"},
	{"debt", "debt or leverage appears; note maturity and servicing cost"},
	{"cash flow", "cash flow statements are referenced; check operating vs investing"},
	{"dividend", "dividend policy is mentioned; note payout consistency"},
	{"expense", "expenses appear; look at their growth relative to revenue"},
	{"forecast", "forward-looking statements exist; treat them as estimates"},
}

func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lower := strings.ToLower(user)

	var hits []string
	for _, t := range topics {
		if strings.Contains(lower, t.keyword) {
			hits = append(hits, t.note)
		}
	}
	amounts := moneyRe.FindAllString(user, 5)

	var b strings.Builder
	b.WriteString("Offline analysis (no LLM provider configured).\n\n")
	if len(hits) == 0 {
		b.WriteString("The document text contains no obvious financial vocabulary; ")
		b.WriteString("verify that the uploaded file is a financial document relevant to the query.\n")
	} else {
		b.WriteString("Signals found in the document:\n")
		for i, h := range hits {
			fmt.Fprintf(&b, "%d. %s\n", i+1, h)
		}
	}
	if len(amounts) > 0 {
		fmt.Fprintf(&b, "\nSample amounts seen in the text: %s\n", strings.Join(amounts, ", "))
	}
	b.WriteString("\nRecommendation: configure an AI provider API key to get a full narrative analysis.")
	return b.String(), nil
}
