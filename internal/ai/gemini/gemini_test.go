package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-iso-board/internal/config"
	"github.com/pribylovaa/go-iso-board/internal/models"
)

func TestNew_EmptyKey(t *testing.T) {
	_, err := New(context.Background(), config.AIConfig{Model: "gemini-2.5-flash"})
	require.Error(t, err)
}

func TestToHistory(t *testing.T) {
	got := toHistory([]models.ChatTurn{
		{Role: models.ChatUser, Text: "hi"},
		{Role: models.ChatModel, Text: "hello"},
		{Role: models.ChatUser, ImageURL: "https://cdn/x.png"},
		{Role: models.ChatUser},
	})

	require.Len(t, got, 3)
	require.Equal(t, "user", got[0].Role)
	require.Equal(t, "model", got[1].Role)
	require.Equal(t, genai.Text("[image]"), got[2].Parts[0])
}

func TestUserParts(t *testing.T) {
	parts := userParts("what is it worth?", &models.ChatImage{Data: []byte{1, 2}})
	require.Len(t, parts, 2)
	require.Equal(t, genai.Text("what is it worth?"), parts[0])
	require.Equal(t, genai.Blob{MIMEType: "image/jpeg", Data: []byte{1, 2}}, parts[1])

	require.Len(t, userParts("", &models.ChatImage{MIMEType: "image/png", Data: []byte{1}}), 1)
	require.Len(t, userParts("text only", nil), 1)
}

func TestResponseText_AndFunctionCall(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("Let me "),
				genai.FunctionCall{Name: "finalize_draft", Args: map[string]any{"name": "Jordan 1"}},
				genai.Text("finalize that. "),
			}},
		}},
	}

	require.Equal(t, "Let me finalize that.", responseText(resp))

	fc, ok := functionCall(resp, "finalize_draft")
	require.True(t, ok)
	require.Equal(t, "Jordan 1", fc.Args["name"])

	_, ok = functionCall(resp, "other")
	require.False(t, ok)

	require.Empty(t, responseText(nil))
	require.Empty(t, responseText(&genai.GenerateContentResponse{}))
}

func TestDraftFromArgs(t *testing.T) {
	d := draftFromArgs(map[string]any{
		"name":           " Rolex Daytona ",
		"category":       "Watches",
		"estimatedValue": 25000.9,
	})

	require.Equal(t, "Rolex Daytona", d.Name)
	require.Equal(t, models.CategoryWatches, d.Category)
	require.Empty(t, d.Details)
	require.EqualValues(t, 25000, d.EstimatedValue)
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   any
		want int64
	}{
		{in: 12.7, want: 12},
		{in: 3, want: 3},
		{in: "$1,200", want: 1200},
		{in: "lots", want: 0},
		{in: nil, want: 0},
		{in: true, want: 0},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, number(tc.in), "%v", tc.in)
	}
}

func TestParseInsight(t *testing.T) {
	raw := "```json\n" + `{"summary":" Prices around $300. ","sources":[` +
		`{"title":"StockX","uri":"https://stockx.com"},{"title":"","uri":"https://goat.com"},{"title":"x","uri":""}]}` +
		"\n```"

	in, err := parseInsight(raw)
	require.NoError(t, err)
	require.Equal(t, "Prices around $300.", in.Text)
	require.Equal(t, []models.Source{
		{Title: "StockX", URI: "https://stockx.com"},
		{Title: "Source", URI: "https://goat.com"},
	}, in.Sources)

	_, err = parseInsight("not json")
	require.Error(t, err)
}

func TestFinalizeDraftTool_CategoryEnum(t *testing.T) {
	enum := finalizeDraftTool.Parameters.Properties["category"].Enum
	require.Equal(t, []string{"Sneakers", "Watches", "Archival Fashion", "Collectibles"}, enum)
}
