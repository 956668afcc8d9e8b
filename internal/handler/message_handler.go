package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MboaMarket/mboa_api/internal/service"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// MessageHandler handles buyer-seller messaging endpoints.
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type startConversationRequest struct {
	ListingID int    `json:"listingId" binding:"required"`
	Body      string `json:"body" binding:"required,max=2000"`
}

// StartConversation handles POST /v1/conversations
func (h *MessageHandler) StartConversation(c *gin.Context) {
	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	conv, msg, err := h.messageService.StartConversation(c.GetInt("user_id"), req.ListingID, req.Body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 201, "Conversation started", gin.H{"conversation": conv, "message": msg})
}

// ListConversations handles GET /v1/conversations
func (h *MessageHandler) ListConversations(c *gin.Context) {
	list, err := h.messageService.ListConversations(c.GetInt("user_id"))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load conversations")
		return
	}
	utils.Success(c, 200, "Conversations retrieved", list)
}

type sendMessageRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}

// SendMessage handles POST /v1/conversations/:id/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Conversation id must be numeric")
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	msg, err := h.messageService.SendMessage(id, c.GetInt("user_id"), req.Body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 201, "Message sent", msg)
}

// ListMessages handles GET /v1/conversations/:id/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Conversation id must be numeric")
		return
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 50)
	msgs, total, err := h.messageService.ListMessages(id, c.GetInt("user_id"), page, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Messages retrieved", msgs, page, limit, total)
}

func (h *MessageHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrListingNotFound:
		utils.Error(c, 404, "LISTING_NOT_FOUND", "Listing not found")
	case utils.ErrSelfConversation:
		utils.Error(c, 400, "SELF_CONVERSATION", "You cannot message yourself")
	case utils.ErrConversationNotFound:
		utils.Error(c, 404, "CONVERSATION_NOT_FOUND", "Conversation not found")
	case utils.ErrNotParticipant:
		utils.Error(c, 403, "NOT_PARTICIPANT", "You are not part of this conversation")
	case utils.ErrEmptyMessage:
		utils.Error(c, 400, "EMPTY_MESSAGE", "Message body cannot be empty")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
