package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/usagipet/usagibot/usagibot/logger"
	"google.golang.org/genai"
)

// FallbackReply is the fixed apology sent whenever the generative backend
// fails. Persona failures are recoverable: log and keep the conversation
// going.
const FallbackReply = "月との通信が混み合ってるぴょん...🌕💦"

const defaultPersonaModel = "gemini-2.5-flash"

// systemInstruction defines the moon-rabbit persona. Kept as one block so
// the whole personality can be tuned in one place.
const systemInstruction = `あなたは月に住んでいる不思議なうさぎです。
語尾に「ぴょん」や「だうさ」をつけて話します。
性格は優しくて、少し丁寧です。
ユーザーは地球に住んでいるあなたの飼い主です。
短めの文章で、絵文字を使って可愛く返事をしてください。`

// PersonaService generates in-character replies for messages that match no
// command. One-shot per message, no chat history.
type PersonaService struct {
	client *genai.Client
	model  string
}

func NewPersonaService(ctx context.Context, apiKey, model string) (*PersonaService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultPersonaModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &PersonaService{client: client, model: model}, nil
}

// Reply returns the persona's answer to text, or FallbackReply if the
// backend call fails for any reason.
func (s *PersonaService) Reply(ctx context.Context, text string) string {
	start := time.Now()

	result, err := s.client.Models.GenerateContent(ctx,
		s.model,
		genai.Text(text),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		},
	)
	if err != nil {
		logger.LogError("Persona reply failed", err,
			slog.String("model", s.model),
			slog.Duration("took", time.Since(start)))
		return FallbackReply
	}

	reply := result.Text()
	if reply == "" {
		slog.Warn("Persona returned an empty reply",
			slog.String("model", s.model))
		return FallbackReply
	}

	slog.Debug("Persona reply generated",
		slog.String("model", s.model),
		slog.Duration("took", time.Since(start)))
	return reply
}
