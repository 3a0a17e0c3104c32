package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MinUsernameLength = 5
	MaxUsernameLength = 32
)

// Telegram usernames: letters, digits and underscores, 5-32 characters,
// starting with a letter. Bot usernames additionally end in "bot".
var telegramUsernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{4,31}$`)

// ValidateBotUsername checks a value used to build t.me deep links.
func ValidateBotUsername(username string) error {
	if username == "" {
		return fmt.Errorf("bot username cannot be empty")
	}

	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return fmt.Errorf("bot username must be %d-%d characters long", MinUsernameLength, MaxUsernameLength)
	}

	if !telegramUsernameRegex.MatchString(username) {
		return fmt.Errorf("bot username %q contains invalid characters", username)
	}

	if !strings.HasSuffix(strings.ToLower(username), "bot") {
		return fmt.Errorf("bot username %q must end with \"bot\"", username)
	}

	return nil
}
