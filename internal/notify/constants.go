package notify

// Log messages
const (
	LogMsgSubscriberRegistered = "Discord announcer registered for event types"
	LogMsgInvalidPayload       = "Invalid event payload"
	LogMsgAnnounceFailed       = "Failed to send Discord announcement"
	LogMsgAnnounceSent         = "Discord announcement sent"
)

// Embed accent colors per rarity
const (
	ColorLegendary = 0xFFD700 // Gold
	ColorMythic    = 0xE91E63 // Magenta
)

// Announcement footer
const FooterText = "Pack Openings"
