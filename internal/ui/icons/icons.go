package icons

import "github.com/nhath/clipkeep/internal/clipboard"

const (
	// Kind Icons (Nerd Font)
	IconText  = "\U000f0219"
	IconURL   = "\U000f0337"
	IconImage = "\U000f021f"

	// Utility Icons
	IconLock      = "\U000f033e"
	IconSuccess   = "✓"
	IconError     = "⚠"
	IconSelect    = "▸"
	IconBullet    = "•"
	IconSeparator = "  •  "
)

func GetKindIcon(kind clipboard.Kind) string {
	switch kind {
	case clipboard.URL:
		return IconURL
	case clipboard.Image:
		return IconImage
	default:
		return IconText
	}
}
