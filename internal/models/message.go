package models

import "time"

// Conversation groups the messages between a buyer and a seller about one listing.
type Conversation struct {
	ID            int        `db:"id" json:"id"`
	ListingID     int        `db:"listing_id" json:"listingId"`
	BuyerID       int        `db:"buyer_id" json:"buyerId"`
	SellerID      int        `db:"seller_id" json:"sellerId"`
	LastMessageAt *time.Time `db:"last_message_at" json:"lastMessageAt,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`

	ListingTitle *string `db:"listing_title" json:"listingTitle,omitempty"`
	UnreadCount  int     `db:"unread_count" json:"unreadCount"`
}

// Message is one message inside a conversation.
type Message struct {
	ID             int       `db:"id" json:"id"`
	ConversationID int       `db:"conversation_id" json:"conversationId"`
	SenderID       int       `db:"sender_id" json:"senderId"`
	Body           string    `db:"body" json:"body"`
	IsRead         bool      `db:"is_read" json:"isRead"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
