// gemini — реализация service.Generator поверх Gemini API (github.com/google/generative-ai-go).
//
// Три модели с разными системными инструкциями:
//   - chat    — свободный помощник по площадке;
//   - insight — рыночная сводка в JSON со ссылками-источниками;
//   - draft   — диалог создания объявления с инструментом finalize_draft.
//
// Все вызовы проходят через общий rate.Limiter (квота ключа API).
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/pribylovaa/go-iso-board/internal/config"
	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/pkg/log"
	"github.com/pribylovaa/go-iso-board/internal/service"
)

// ErrEmptyResponse — модель не вернула ни текста, ни вызова инструмента.
var ErrEmptyResponse = errors.New("gemini: empty response")

// Client — адаптер Gemini.
type Client struct {
	client  *genai.Client
	chat    *genai.GenerativeModel
	insight *genai.GenerativeModel
	draft   *genai.GenerativeModel
	limiter *rate.Limiter
}

var _ service.Generator = (*Client)(nil)

// New создаёт клиента. Пустой ключ — ошибка: без ключа генератор не подключается вовсе.
func New(ctx context.Context, cfg config.AIConfig) (*Client, error) {
	const op = "ai/gemini/New"

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: api key is empty", op)
	}

	gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	chat := gc.GenerativeModel(cfg.Model)
	chat.SystemInstruction = genai.NewUserContent(genai.Text(chatInstruction))

	insight := gc.GenerativeModel(cfg.Model)
	insight.SystemInstruction = genai.NewUserContent(genai.Text(insightInstruction))
	insight.ResponseMIMEType = "application/json"
	insight.ResponseSchema = insightSchema

	draft := gc.GenerativeModel(cfg.Model)
	draft.SystemInstruction = genai.NewUserContent(genai.Text(draftInstruction))
	draft.Tools = []*genai.Tool{{FunctionDeclarations: []*genai.FunctionDeclaration{finalizeDraftTool}}}

	every := time.Minute / time.Duration(max(cfg.RatePerMinute, 1))

	return &Client{
		client:  gc,
		chat:    chat,
		insight: insight,
		draft:   draft,
		limiter: rate.NewLimiter(rate.Every(every), max(cfg.Burst, 1)),
	}, nil
}

// Close освобождает gRPC-соединение клиента.
func (c *Client) Close() error {
	return c.client.Close()
}

// Chat — свободный ответ с учётом истории.
func (c *Client) Chat(ctx context.Context, history []models.ChatTurn, text string) (string, error) {
	const op = "ai/gemini/Chat"

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	cs := c.chat.StartChat()
	cs.History = toHistory(history)

	resp, err := cs.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	out := responseText(resp)
	if out == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}

	return out, nil
}

// MarketInsight — короткая сводка по рынку товара со ссылками.
func (c *Client) MarketInsight(ctx context.Context, item string) (*models.MarketInsight, error) {
	const op = "ai/gemini/MarketInsight"

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.insight.GenerateContent(ctx, genai.Text(insightPrompt(item)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	raw := responseText(resp)
	if raw == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}

	in, err := parseInsight(raw)
	if err != nil {
		log.From(ctx).Warn("insight is not valid json", "op", op, "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return in, nil
}

// ExtractDraft — очередной шаг диалога создания объявления.
// Вызов finalize_draft -> Draft, иначе текст модели.
func (c *Client) ExtractDraft(ctx context.Context, history []models.ChatTurn, text string, image *models.ChatImage) (*models.DraftReply, error) {
	const op = "ai/gemini/ExtractDraft"

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cs := c.draft.StartChat()
	cs.History = toHistory(history)

	resp, err := cs.SendMessage(ctx, userParts(text, image)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if call, ok := functionCall(resp, finalizeDraftTool.Name); ok {
		return &models.DraftReply{Draft: draftFromArgs(call.Args)}, nil
	}

	out := responseText(resp)
	if out == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}

	return &models.DraftReply{Text: out}, nil
}
