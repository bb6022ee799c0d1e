// File: /services/chat_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"injoy-api/models"
)

const chatSystemPrompt = "You are a travel assistant for the INJOY app. " +
	"Help users plan trips and build itineraries of concrete points worth visiting. " +
	"Keep answers short and practical."

// defaultSuggestions are follow-up chips rotated into replies.
var defaultSuggestions = []string{
	"Plan a weekend trip",
	"Where to go in autumn?",
	"Budget trip ideas",
	"Best spots for photos",
	"Family-friendly itineraries",
	"Hidden gems nearby",
}

// ChatService proxies the AI itinerary assistant: it persists conversation
// turns per user and forwards a fixed trailing window of history to the
// language model.
type ChatService struct {
	db     *gorm.DB
	client *anthropic.Client
	model  string
	window int
	log    *logrus.Logger
}

func NewChatService(db *gorm.DB, apiKey, model string, window int, log *logrus.Logger) *ChatService {
	return &ChatService{
		db:     db,
		client: anthropic.NewClient(apiKey),
		model:  model,
		window: window,
		log:    log,
	}
}

// ChatReply is the assistant's answer plus rotating suggestion chips.
type ChatReply struct {
	Reply       string   `json:"reply"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// SendMessage stores the user's turn, asks the model with the trailing
// history window, stores the reply, and returns it.
func (s *ChatService) SendMessage(ctx context.Context, userID, message string) (ChatReply, error) {
	if userID == "" || message == "" {
		return ChatReply{}, errors.New("missing user_id or message")
	}

	userTurn := models.ChatMessage{UserID: userID, Role: "user", Message: message}
	if err := s.db.WithContext(ctx).Create(&userTurn).Error; err != nil {
		return ChatReply{}, fmt.Errorf("failed to store message: %w", err)
	}

	history, err := s.trailingHistory(ctx, userID)
	if err != nil {
		return ChatReply{}, err
	}

	messages := make([]anthropic.Message, 0, len(history))
	for _, turn := range history {
		if turn.Role == "assistant" {
			messages = append(messages, anthropic.NewAssistantTextMessage(turn.Message))
		} else {
			messages = append(messages, anthropic.NewUserTextMessage(turn.Message))
		}
	}

	resp, err := s.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(s.model),
		System:    chatSystemPrompt,
		Messages:  messages,
		MaxTokens: 1024,
	})
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("chat completion failed")
		return ChatReply{}, errors.New("failed to generate a reply")
	}

	reply := resp.GetFirstContentText()
	if reply == "" {
		return ChatReply{}, errors.New("failed to generate a reply")
	}

	assistantTurn := models.ChatMessage{UserID: userID, Role: "assistant", Message: reply}
	if err := s.db.WithContext(ctx).Create(&assistantTurn).Error; err != nil {
		return ChatReply{}, fmt.Errorf("failed to store reply: %w", err)
	}

	return ChatReply{Reply: reply, Suggestions: s.pickSuggestions(len(history))}, nil
}

// trailingHistory returns the last window turns for a user in
// chronological order. The user's just-stored message is included.
func (s *ChatService) trailingHistory(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	var turns []models.ChatMessage
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(s.window).
		Find(&turns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	// reverse into chronological order
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (s *ChatService) pickSuggestions(seed int) []string {
	n := len(defaultSuggestions)
	picked := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		picked = append(picked, defaultSuggestions[(seed+i)%n])
	}
	return picked
}
