// Database models for coaching conversations
package db

import "time"

// Conversation represents a chat conversation owned by a user.
// Summary is the rolling long-term digest: rewritten after each completed
// turn, never appended, capped at 8000 chars at persistence time.
type Conversation struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"user_id" gorm:"index;size:36;not null"`
	Title     string    `json:"title" gorm:"size:200;default:'New Chat'"`
	Summary   string    `json:"summary,omitempty" gorm:"type:text"`
	Status    string    `json:"status" gorm:"size:20;default:'active'"` // active, archived
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Conversation status
const (
	ConversationStatusActive   = "active"
	ConversationStatusArchived = "archived"
)

// Message is one persisted turn half. Messages are append-only: a row is
// never mutated after creation.
type Message struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	ConversationID string    `json:"conversation_id" gorm:"index;size:36;not null"`
	Role           string    `json:"role" gorm:"size:20;not null"` // user, assistant, system
	Content        string    `json:"content" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)
