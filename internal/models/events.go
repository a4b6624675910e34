package models

// These structs are the transport-independent inbound events the bot reacts to.
// The telegram adapter converts raw updates into them.

// ConvertAction is the callback data carried by the "create PDF" button.
const ConvertAction = "convert"

// PhotoVariant is one resolution of an inbound photo.
type PhotoVariant struct {
	FileID   string
	Width    int
	Height   int
	FileSize int
}

// StartEvent is the /start command.
type StartEvent struct {
	UserID int64
	ChatID int64
}

// ImageEvent is an inbound photo. Variants are ordered from smallest to largest.
type ImageEvent struct {
	UserID   int64
	ChatID   int64
	Variants []PhotoVariant
}

// TriggerEvent is a pressed inline button.
type TriggerEvent struct {
	QueryID string
	UserID  int64
	ChatID  int64
	Data    string
}
