package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/realtyhub/backoffice/internal/external"
	"github.com/realtyhub/backoffice/internal/logging"
	"github.com/realtyhub/backoffice/internal/validation"
)

const (
	maxChatHistory = 10

	chatSystemPrompt = `Eres el asistente virtual de una inmobiliaria en Tijuana, Baja California.
Ayudas a los visitantes del sitio web con preguntas sobre propiedades en venta y renta,
el proceso de compra, financiamiento y las zonas de la ciudad.
Responde siempre en español, de forma breve y amable.
Si el usuario quiere agendar una visita o hablar con un agente, invítalo a usar el formulario de contacto.
No inventes precios ni disponibilidad de propiedades específicas.`

	ChatFallbackReply = "Lo siento, en este momento no puedo responder. Por favor intenta de nuevo más tarde o utiliza nuestro formulario de contacto."
)

type completer interface {
	Complete(ctx context.Context, messages []external.ChatMessage) (string, error)
}

type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=4000"`
}

type ChatRequest struct {
	Message string     `json:"message" validate:"required,max=4000"`
	History []ChatTurn `json:"history" validate:"omitempty,max=50,dive"`
}

type ChatReply struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback"`
}

type ChatService struct {
	llm       completer
	validator *validation.Validator
}

func NewChatService(llm completer, v *validation.Validator) *ChatService {
	return &ChatService{llm: llm, validator: v}
}

// Reply returns an error only for invalid input. Provider failures yield
// the fallback reply.
func (s *ChatService) Reply(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	req.Message = strings.TrimSpace(req.Message)
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("Reply: %w", err)
	}

	history := req.History
	if len(history) > maxChatHistory {
		history = history[len(history)-maxChatHistory:]
	}

	messages := make([]external.ChatMessage, 0, len(history)+2)
	messages = append(messages, external.ChatMessage{Role: "system", Content: chatSystemPrompt})
	for _, turn := range history {
		messages = append(messages, external.ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, external.ChatMessage{Role: "user", Content: req.Message})

	out, err := s.llm.Complete(ctx, messages)
	if err != nil {
		logging.FromContext(ctx).Warn("chat completion failed, using fallback reply", "error", err)
		return &ChatReply{Reply: ChatFallbackReply, Fallback: true}, nil
	}
	return &ChatReply{Reply: strings.TrimSpace(out)}, nil
}
