package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/MboaMarket/mboa_api/internal/models"
)

// MessageRepository handles data access for conversations and messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// GetOrCreateConversation finds the conversation for (listing, buyer) or
// creates one. Seller is derived from the listing owner by the service layer.
func (r *MessageRepository) GetOrCreateConversation(listingID, buyerID, sellerID int) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.Get(&conv, `
        SELECT id, listing_id, buyer_id, seller_id, last_message_at, created_at
        FROM conversations
        WHERE listing_id = $1 AND buyer_id = $2
        LIMIT 1`, listingID, buyerID)
	if err == nil {
		return &conv, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	const q = `
        INSERT INTO conversations (listing_id, buyer_id, seller_id)
        VALUES ($1, $2, $3)
        RETURNING id, listing_id, buyer_id, seller_id, last_message_at, created_at`
	if err := r.db.Get(&conv, q, listingID, buyerID, sellerID); err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetConversation returns a conversation by id.
func (r *MessageRepository) GetConversation(id int) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.Get(&conv, `
        SELECT id, listing_id, buyer_id, seller_id, last_message_at, created_at
        FROM conversations WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversations returns a user's conversations with listing title and
// unread count, most recently active first.
func (r *MessageRepository) ListConversations(userID int) ([]models.Conversation, error) {
	const q = `
        SELECT cv.id, cv.listing_id, cv.buyer_id, cv.seller_id, cv.last_message_at, cv.created_at,
               l.title AS listing_title,
               COUNT(m.id) FILTER (WHERE m.is_read = false AND m.sender_id <> $1) AS unread_count
        FROM conversations cv
        JOIN listings l ON cv.listing_id = l.id
        LEFT JOIN messages m ON m.conversation_id = cv.id
        WHERE cv.buyer_id = $1 OR cv.seller_id = $1
        GROUP BY cv.id, l.title
        ORDER BY cv.last_message_at DESC NULLS LAST`
	var list []models.Conversation
	if err := r.db.Select(&list, q, userID); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateMessage inserts a message and bumps the conversation's last activity.
func (r *MessageRepository) CreateMessage(msg *models.Message) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
        INSERT INTO messages (conversation_id, sender_id, body)
        VALUES ($1, $2, $3)
        RETURNING id, is_read, created_at`
	if err := tx.QueryRow(q, msg.ConversationID, msg.SenderID, msg.Body).
		Scan(&msg.ID, &msg.IsRead, &msg.CreatedAt); err != nil {
		return err
	}

	if _, err := tx.Exec(
		`UPDATE conversations SET last_message_at = NOW() WHERE id = $1`,
		msg.ConversationID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// ListMessages returns a conversation's messages, oldest first, paginated.
func (r *MessageRepository) ListMessages(conversationID, page, limit int) ([]models.Message, int, error) {
	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM messages WHERE conversation_id = $1`, conversationID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	const q = `
        SELECT * FROM messages
        WHERE conversation_id = $1
        ORDER BY created_at ASC
        LIMIT $2 OFFSET $3`
	var list []models.Message
	if err := r.db.Select(&list, q, conversationID, limit, offset); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// MarkRead marks all messages sent by the other participant as read.
func (r *MessageRepository) MarkRead(conversationID, readerID int) error {
	_, err := r.db.Exec(`
        UPDATE messages SET is_read = true
        WHERE conversation_id = $1 AND sender_id <> $2 AND is_read = false`,
		conversationID, readerID)
	return err
}
