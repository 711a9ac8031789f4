package gemini

import (
	"fmt"

	"github.com/google/generative-ai-go/genai"

	"github.com/pribylovaa/go-iso-board/internal/models"
)

const chatInstruction = `You are the 'ISO Guide', a helpful assistant for a reverse marketplace (bulletin board) ` +
	`where buyers post ISOs ("in search of") and sellers contact them directly. ` +
	`The platform does NOT handle payments, shipping or escrow: all deals happen off-platform. ` +
	`There are no selling fees. Advise safe payment methods such as PayPal Goods & Services. ` +
	`Be concise and friendly. Keep answers under 3 sentences unless asked for details.`

const insightInstruction = `You are a resale market analyst. Answer with JSON only.`

const draftInstruction = `You are a listing agent helping a user create an "In Search Of" post.
1. If the user asks a question, answer it directly first.
2. Then ask for whatever is missing: name, category, target price, details.
3. If the user uploads an image, infer the name and category from it and confirm with the user.
4. Be concise and conversational.
5. Only when name, category and price are clear, call the finalize_draft tool.`

func insightPrompt(item string) string {
	return fmt.Sprintf(`Provide a concise market summary for: %s.
Rules:
1. Keep the summary under 80 words.
2. Focus on the current resale price range and one key trend.
3. No formatting, a single clean paragraph.
4. List up to 3 sources you relied on as title and uri.`, item)
}

func categoryNames() []string {
	out := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		out = append(out, string(c))
	}

	return out
}

var finalizeDraftTool = &genai.FunctionDeclaration{
	Name:        "finalize_draft",
	Description: "Call when name, category and price are known to create the ISO listing.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":           {Type: genai.TypeString, Description: "The specific name of the item"},
			"category":       {Type: genai.TypeString, Enum: categoryNames()},
			"details":        {Type: genai.TypeString, Description: "Condition, size, year, etc."},
			"estimatedValue": {Type: genai.TypeNumber, Description: "Target price or budget in USD"},
		},
		Required: []string{"name", "category", "estimatedValue"},
	},
}

var insightSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary": {Type: genai.TypeString},
		"sources": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title": {Type: genai.TypeString},
					"uri":   {Type: genai.TypeString},
				},
				Required: []string{"uri"},
			},
		},
	},
	Required: []string{"summary"},
}
