package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"
	"github.com/tidwall/gjson"
)

const webAppDataKey = "WebAppData"

var (
	ErrEmpty          = errors.New("init data is empty")
	ErrTokenMissing   = errors.New("bot token is not configured")
	ErrMalformed      = errors.New("init data is malformed")
	ErrHashMissing    = errors.New("init data hash is missing")
	ErrHashMismatch   = errors.New("init data hash mismatch")
	ErrAuthDateMissed = errors.New("init data auth_date is missing")
	ErrExpired        = errors.New("init data is expired")
	ErrUserMissing    = errors.New("init data has no user")
)

// Identity is the platform user asserted by verified init data.
type Identity struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

// Verifier checks Telegram Mini App init data against the bot token.
//
// Two encodings are accepted: a JSON object (keys map to values, nested
// objects are signed by their raw JSON text) and the URL query string the
// Telegram client hands to Mini Apps. Both are signed the same way.
type Verifier struct {
	token string
	ttl   time.Duration
	now   func() time.Time
}

// NewVerifier returns a verifier. A zero ttl disables the auth_date age check.
func NewVerifier(token string, ttl time.Duration) *Verifier {
	return &Verifier{token: token, ttl: ttl, now: time.Now}
}

// Verify authenticates raw init data and returns the identity it carries.
// Every failure is reported as an error; callers treat any error as unauthorized.
func (v *Verifier) Verify(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, ErrEmpty
	}
	if v.token == "" {
		return Identity{}, ErrTokenMissing
	}

	if strings.HasPrefix(raw, "{") {
		return v.verifyJSON(raw)
	}
	return v.verifyQuery(raw)
}

func (v *Verifier) verifyJSON(raw string) (Identity, error) {
	if !gjson.Valid(raw) {
		return Identity{}, ErrMalformed
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return Identity{}, ErrMalformed
	}

	// Keys are unique so the identity below is the value that was signed.
	var hash string
	pairs := make(map[string]string)
	seen := make(map[string]bool)
	duplicate := false
	doc.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if seen[k] {
			duplicate = true
			return false
		}
		seen[k] = true
		if k == "hash" {
			hash = value.String()
			return true
		}
		pairs[k] = fieldValue(value)
		return true
	})
	if duplicate {
		return Identity{}, ErrMalformed
	}

	if hash == "" {
		return Identity{}, ErrHashMissing
	}
	if !hmac.Equal([]byte(Sign(pairs, v.token)), []byte(hash)) {
		return Identity{}, ErrHashMismatch
	}

	if v.ttl > 0 {
		authDate, err := strconv.ParseInt(pairs["auth_date"], 10, 64)
		if err != nil || authDate == 0 {
			return Identity{}, ErrAuthDateMissed
		}
		if time.Unix(authDate, 0).Add(v.ttl).Before(v.now()) {
			return Identity{}, ErrExpired
		}
	}

	rawUser, ok := pairs["user"]
	if !ok {
		return Identity{}, ErrUserMissing
	}
	if !gjson.Valid(rawUser) {
		return Identity{}, ErrMalformed
	}
	user := gjson.Parse(rawUser)
	if !user.IsObject() {
		return Identity{}, ErrUserMissing
	}

	id := user.Get("id")
	if id.Type != gjson.Number || id.Int() == 0 {
		return Identity{}, ErrUserMissing
	}

	return Identity{
		ID:        id.Int(),
		FirstName: user.Get("first_name").String(),
		LastName:  user.Get("last_name").String(),
		Username:  user.Get("username").String(),
	}, nil
}

func (v *Verifier) verifyQuery(raw string) (Identity, error) {
	q, err := url.ParseQuery(raw)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for _, values := range q {
		if len(values) > 1 {
			return Identity{}, ErrMalformed
		}
	}

	if err := initdata.Validate(raw, v.token, v.ttl); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrHashMismatch, err)
	}

	parsed, err := initdata.Parse(raw)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if parsed.User.ID == 0 {
		return Identity{}, ErrUserMissing
	}

	return Identity{
		ID:        parsed.User.ID,
		FirstName: parsed.User.FirstName,
		LastName:  parsed.User.LastName,
		Username:  parsed.User.Username,
	}, nil
}

// fieldValue renders a JSON value the way it takes part in the data-check string:
// strings by their content, everything else by its raw JSON text.
func fieldValue(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.Str
	}
	return v.Raw
}

// Sign computes the init-data hash for the given key/value pairs. The hash
// key itself must not be among the pairs.
func Sign(pairs map[string]string, token string) string {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+pairs[k])
	}

	secret := hmacSHA256([]byte(webAppDataKey), []byte(token))
	return hex.EncodeToString(hmacSHA256(secret, []byte(strings.Join(lines, "\n"))))
}

func hmacSHA256(key, msg []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(msg)
	return h.Sum(nil)
}
