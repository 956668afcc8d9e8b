package service

import (
	"database/sql"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/repository"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// MessageService contains business logic for buyer-seller conversations.
type MessageService struct {
	messageRepo *repository.MessageRepository
	listingRepo *repository.ListingRepository
}

// NewMessageService constructs a MessageService.
func NewMessageService(messageRepo *repository.MessageRepository, listingRepo *repository.ListingRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo, listingRepo: listingRepo}
}

// StartConversation opens (or resumes) a conversation about a listing and
// sends the first message. Sellers cannot message themselves.
func (s *MessageService) StartConversation(buyerID, listingID int, body string) (*models.Conversation, *models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil, utils.ErrEmptyMessage
	}

	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, utils.ErrListingNotFound
		}
		return nil, nil, err
	}
	if listing.OwnerID == buyerID {
		return nil, nil, utils.ErrSelfConversation
	}

	conv, err := s.messageRepo.GetOrCreateConversation(listingID, buyerID, listing.OwnerID)
	if err != nil {
		return nil, nil, err
	}

	msg := &models.Message{ConversationID: conv.ID, SenderID: buyerID, Body: body}
	if err := s.messageRepo.CreateMessage(msg); err != nil {
		return nil, nil, err
	}
	return conv, msg, nil
}

// getConversationFor loads a conversation and checks the caller participates.
func (s *MessageService) getConversationFor(conversationID, userID int) (*models.Conversation, error) {
	conv, err := s.messageRepo.GetConversation(conversationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrConversationNotFound
		}
		return nil, err
	}
	if conv.BuyerID != userID && conv.SellerID != userID {
		return nil, utils.ErrNotParticipant
	}
	return conv, nil
}

// SendMessage appends a message to an existing conversation.
func (s *MessageService) SendMessage(conversationID, senderID int, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, utils.ErrEmptyMessage
	}

	if _, err := s.getConversationFor(conversationID, senderID); err != nil {
		return nil, err
	}

	msg := &models.Message{ConversationID: conversationID, SenderID: senderID, Body: body}
	if err := s.messageRepo.CreateMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListConversations returns the caller's conversations.
func (s *MessageService) ListConversations(userID int) ([]models.Conversation, error) {
	return s.messageRepo.ListConversations(userID)
}

// ListMessages returns a conversation's messages and marks the other
// participant's messages as read.
func (s *MessageService) ListMessages(conversationID, userID, page, limit int) ([]models.Message, int, error) {
	if _, err := s.getConversationFor(conversationID, userID); err != nil {
		return nil, 0, err
	}

	msgs, total, err := s.messageRepo.ListMessages(conversationID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	if err := s.messageRepo.MarkRead(conversationID, userID); err != nil {
		log.Warn().Err(err).Int("conversation_id", conversationID).Msg("failed to mark messages read")
	}
	return msgs, total, nil
}
