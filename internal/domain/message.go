package domain

import (
	"context"
	"time"
)

type MessageKind string

const (
	MessageText        MessageKind = "TEXTE"
	MessageQuote       MessageKind = "DEVIS"
	MessageProofOfWork MessageKind = "PREUVE"
)

func (k MessageKind) Valid() bool {
	switch k {
	case MessageText, MessageQuote, MessageProofOfWork:
		return true
	}
	return false
}

type Message struct {
	ID             string      `gorm:"primaryKey;size:32" json:"id"`
	SenderID       string      `gorm:"size:32;not null;index" json:"senderId"`
	ReceiverID     string      `gorm:"size:32;not null;index" json:"receiverId"`
	Content        string      `gorm:"type:text" json:"content"`
	AttachmentPath string      `gorm:"size:512" json:"attachmentPath,omitempty"`
	Kind           MessageKind `gorm:"size:10;not null;default:TEXTE" json:"kind"`
	CreatedAt      time.Time   `gorm:"index" json:"createdAt"`
}

func (Message) TableName() string { return "messages" }

// Correspondence 一条消息的 (sender, receiver) 对
type Correspondence struct {
	SenderID   string
	ReceiverID string
}

type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	// ListInvolving 用户收发的消息，按时间倒序
	ListInvolving(ctx context.Context, userID string, limit int) ([]Message, error)
	// Correspondences 用户参与的全部 (sender, receiver) 对
	Correspondences(ctx context.Context, userID string) ([]Correspondence, error)
	// Between 两人之间的消息，按时间正序
	Between(ctx context.Context, a, b string) ([]Message, error)
}
