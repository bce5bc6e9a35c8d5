package domain

import "time"

type WhatsAppMessageType string

const (
	MessageInvitation   WhatsAppMessageType = "INVITATION"
	MessageReminder     WhatsAppMessageType = "RAPPEL"
	MessageNotification WhatsAppMessageType = "NOTIFICATION"
	MessageOther        WhatsAppMessageType = "AUTRE"
)

type WhatsAppMessageStatus string

const (
	MessageSent      WhatsAppMessageStatus = "ENVOYE"
	MessageDelivered WhatsAppMessageStatus = "LIVRE"
	MessageRead      WhatsAppMessageStatus = "LU"
	MessageFailed    WhatsAppMessageStatus = "ECHOUE"
)

type WhatsAppMessage struct {
	ID             string                `gorm:"primaryKey;size:36" json:"id"`
	RecipientPhone string                `gorm:"size:32;index;not null" json:"recipient_phone"`
	RecipientName  string                `gorm:"size:255" json:"recipient_name,omitempty"`
	MessageContent string                `gorm:"size:4096;not null" json:"message_content"`
	MessageType    WhatsAppMessageType   `gorm:"size:16;not null" json:"message_type"`
	EventID        string                `gorm:"size:36;index" json:"event_id,omitempty"`
	Status         WhatsAppMessageStatus `gorm:"size:16;index;not null" json:"status"`
	SentBy         string                `gorm:"size:36" json:"sent_by"`
	SentAt         time.Time             `json:"sent_at"`
}
