package privacy

import "strings"

// MaskPhoneNumber masks a phone number showing only the last 4 digits.
// Example: "+5531999999999" -> "+*********9999"
func MaskPhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}

	if strings.HasPrefix(phone, "+") {
		if len(phone) == 1 {
			return phone
		}
		if len(phone) <= 5 {
			return "+" + strings.Repeat("*", len(phone)-1)
		}
		return "+" + strings.Repeat("*", len(phone)-5) + phone[len(phone)-4:]
	}

	if len(phone) <= 4 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// MaskChatID masks a recipient address while keeping the domain suffix.
// Example: "5531999999999@s.whatsapp.net" -> "*********9999@s.whatsapp.net"
func MaskChatID(chatID string) string {
	if chatID == "" {
		return ""
	}

	if idx := strings.Index(chatID, "@"); idx >= 0 {
		return MaskPhoneNumber(chatID[:idx]) + chatID[idx:]
	}

	return MaskPhoneNumber(chatID)
}
