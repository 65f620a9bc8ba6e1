package controller

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"vaulta-banking-be/internal/dto"
	"vaulta-banking-be/internal/pkg/serverutils"
	"vaulta-banking-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	headerSessionID     = "X-Session-Id"
	headerWebhookSecret = "X-Vapi-Secret"
	completionModel     = "vaulta-assistant"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Turn(ctx *fiber.Ctx) error
	ChatCompletions(ctx *fiber.Ctx) error
	CallWebhook(ctx *fiber.Ctx) error
}

type assistantController struct {
	service       service.IAssistantService
	webhookSecret string
}

func NewAssistantController(service service.IAssistantService, webhookSecret string) IAssistantController {
	return &assistantController{service: service, webhookSecret: webhookSecret}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	r.Post("/api/turns", c.Turn)
	r.Post("/chat/completions", c.ChatCompletions)
	r.Post("/api/call", serverutils.SharedSecretMiddleware(headerWebhookSecret, c.webhookSecret), c.CallWebhook)
}

func turnError(ctx *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrMalformedTurn) {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Internal server error"))
}

func (c *assistantController) Turn(ctx *fiber.Ctx) error {
	var req dto.TurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.HandleTurn(ctx.UserContext(), &req)
	if err != nil {
		return turnError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Turn handled", res))
}

// resolveSessionID picks the first identifier a client supplied, in order
// of specificity, and generates one as a last resort.
func resolveSessionID(req *dto.ChatCompletionRequest, header string) string {
	candidates := []string{req.SessionID, req.User}
	if req.Call != nil {
		candidates = append(candidates, req.Call.ID)
	}
	if v, ok := req.Metadata["session_id"].(string); ok {
		candidates = append(candidates, v)
	}
	candidates = append(candidates, header)
	for _, id := range candidates {
		if id = strings.TrimSpace(id); id != "" {
			return id
		}
	}
	return "chat-" + uuid.NewString()
}

func lastUserMessage(msgs []dto.ChatMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if strings.EqualFold(msgs[i].Role, "user") {
			return msgs[i].Content
		}
	}
	return ""
}

func (c *assistantController) ChatCompletions(ctx *fiber.Ctx) error {
	var req dto.ChatCompletionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	channel := req.Channel
	if channel == "" {
		channel = "web_chat"
	}
	res, err := c.service.HandleTurn(ctx.UserContext(), &dto.TurnRequest{
		SessionID: resolveSessionID(&req, ctx.Get(headerSessionID)),
		Channel:   channel,
		Text:      lastUserMessage(req.Messages),
	})
	if err != nil {
		return turnError(ctx, err)
	}
	ctx.Set(headerSessionID, res.SessionID)

	model := req.Model
	if model == "" {
		model = completionModel
	}
	id := "chatcmpl-" + uuid.NewString()
	created := time.Now().Unix()
	stop := "stop"

	if !req.Stream {
		return ctx.JSON(dto.ChatCompletionResponse{
			ID:      id,
			Object:  "chat.completion",
			Created: created,
			Model:   model,
			Choices: []dto.ChatCompletionChoice{{
				Message:      &dto.ChatMessage{Role: "assistant", Content: res.Reply},
				FinishReason: &stop,
			}},
		})
	}

	chunks := []dto.ChatCompletionResponse{
		{ID: id, Object: "chat.completion.chunk", Created: created, Model: model, Choices: []dto.ChatCompletionChoice{{
			Delta: &dto.ChatMessage{Role: "assistant", Content: res.Reply},
		}}},
		{ID: id, Object: "chat.completion.chunk", Created: created, Model: model, Choices: []dto.ChatCompletionChoice{{
			Delta:        &dto.ChatMessage{},
			FinishReason: &stop,
		}}},
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		for _, chunk := range chunks {
			data, _ := json.Marshal(chunk)
			fmt.Fprintf(w, "data: %s\n\n", data)
			if err := w.Flush(); err != nil {
				return
			}
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		_ = w.Flush()
	})
	return nil
}

func (c *assistantController) CallWebhook(ctx *fiber.Ctx) error {
	var req dto.CallWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	text := req.Message.Transcript
	if text == "" {
		text = lastUserMessage(req.Message.Messages)
	}
	sessionID := ctx.Get(headerSessionID)
	if req.Message.Call != nil && req.Message.Call.ID != "" {
		sessionID = req.Message.Call.ID
	}
	if sessionID == "" {
		sessionID = "call-" + uuid.NewString()
	}

	res, err := c.service.HandleTurn(ctx.UserContext(), &dto.TurnRequest{
		SessionID: sessionID,
		Channel:   "phone",
		Text:      text,
	})
	if err != nil {
		return turnError(ctx, err)
	}
	return ctx.JSON(dto.CallWebhookResponse{
		Reply:     res.Reply,
		EndCall:   res.EndSession,
		SessionID: res.SessionID,
		Reference: res.Reference,
	})
}
