package gemini

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/pribylovaa/go-iso-board/internal/models"
)

// toHistory переводит историю черновика в формат Gemini.
// Изображения прошлых реплик не пересылаются: в истории остаётся только текст.
func toHistory(turns []models.ChatTurn) []*genai.Content {
	out := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		text := t.Text
		if text == "" && t.ImageURL != "" {
			text = "[image]"
		}
		if text == "" {
			continue
		}

		role := "user"
		if t.Role == models.ChatModel {
			role = "model"
		}

		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(text)}})
	}

	return out
}

func userParts(text string, image *models.ChatImage) []genai.Part {
	parts := make([]genai.Part, 0, 2)
	if text != "" {
		parts = append(parts, genai.Text(text))
	}

	if image != nil && len(image.Data) > 0 {
		mime := image.MIMEType
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, genai.Blob{MIMEType: mime, Data: image.Data})
	}

	return parts
}

// responseText склеивает текстовые части первого кандидата.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}

	return strings.TrimSpace(b.String())
}

func functionCall(resp *genai.GenerateContentResponse, name string) (genai.FunctionCall, bool) {
	if resp == nil {
		return genai.FunctionCall{}, false
	}

	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if fc, ok := p.(genai.FunctionCall); ok && fc.Name == name {
				return fc, true
			}
		}
	}

	return genai.FunctionCall{}, false
}

// draftFromArgs достаёт поля черновика. Валидация и дефолты — на стороне сервиса.
func draftFromArgs(args map[string]any) *models.ListingDraft {
	str := func(k string) string {
		s, _ := args[k].(string)
		return strings.TrimSpace(s)
	}

	return &models.ListingDraft{
		Name:           str("name"),
		Category:       models.Category(str("category")),
		Details:        str("details"),
		EstimatedValue: number(args["estimatedValue"]),
	}
}

// number приводит значение аргумента к целому; мусор -> 0.
func number(v any) int64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int64(math.Floor(n))
	case int:
		return int64(n)
	case int64:
		return n
	case string:
		s := strings.TrimPrefix(strings.ReplaceAll(strings.TrimSpace(n), ",", ""), "$")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return number(f)
	default:
		return 0
	}
}

type insightDoc struct {
	Summary string `json:"summary"`
	Sources []struct {
		Title string `json:"title"`
		URI   string `json:"uri"`
	} `json:"sources"`
}

// parseInsight разбирает JSON-ответ сводки. Источники без uri отбрасываются.
func parseInsight(raw string) (*models.MarketInsight, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "```"), "```")

	var doc insightDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("parse insight: %w", err)
	}

	out := &models.MarketInsight{Text: strings.TrimSpace(doc.Summary)}
	for _, s := range doc.Sources {
		uri := strings.TrimSpace(s.URI)
		if uri == "" {
			continue
		}

		title := strings.TrimSpace(s.Title)
		if title == "" {
			title = "Source"
		}
		out.Sources = append(out.Sources, models.Source{Title: title, URI: uri})
	}

	return out, nil
}
