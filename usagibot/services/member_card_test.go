package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberCardHTMLSurvivesDataURL(t *testing.T) {
	s := &MemberCardService{}

	html, err := s.generateHTML(MemberCardData{
		Username:   "usagi-fan",
		ImageURL:   "https://example.test/looks/normal.png",
		LookLabel:  "ノーマル",
		Carrots:    12,
		Streak:     3,
		DollStatus: "あり 🧸",
	})
	require.NoError(t, err)

	// A data: URL ends at the first raw "#"; everything after it is the
	// fragment and never reaches the browser.
	assert.NotContains(t, html, "#",
		"unescaped # would truncate the data: URL payload")

	visible, _, _ := strings.Cut(html, "#")
	assert.Contains(t, visible, `id="member-card"`)
	assert.Contains(t, visible, "usagi-fan")

	// The browser percent-decodes the payload back to the original markup.
	decoded := strings.ReplaceAll(html, "%23", "#")
	assert.Contains(t, decoded, "#member-card {")
}
