package telegram

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123456:TEST-token"

func signedJSON(t *testing.T, token string, pairs map[string]string) string {
	t.Helper()
	payload := make(map[string]string, len(pairs)+1)
	for k, v := range pairs {
		payload[k] = v
	}
	payload["hash"] = Sign(pairs, token)
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(b)
}

func signedQuery(token string, pairs map[string]string) string {
	q := url.Values{}
	for k, v := range pairs {
		q.Set(k, v)
	}
	q.Set("hash", Sign(pairs, token))
	return q.Encode()
}

func basePairs() map[string]string {
	return map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"query_id":  "AAHdF6IQAAAAAN0XohDhrOrc",
		"user":      `{"id":42,"first_name":"Ann","username":"ann"}`,
	}
}

func TestVerifyJSONWithStringUser(t *testing.T) {
	v := NewVerifier(testToken, 0)

	id, err := v.Verify(signedJSON(t, testToken, basePairs()))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.ID)
	assert.Equal(t, "Ann", id.FirstName)
	assert.Equal(t, "ann", id.Username)
}

func TestVerifyJSONWithNestedUserObject(t *testing.T) {
	user := `{"id":7,"first_name":"Bo"}`
	hash := Sign(map[string]string{"auth_date": "1700000000", "user": user}, testToken)
	raw := `{"auth_date":1700000000,"user":` + user + `,"hash":"` + hash + `"}`

	id, err := NewVerifier(testToken, 0).Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id.ID)
	assert.Equal(t, "Bo", id.FirstName)
}

func TestVerifyJSONSignsNonStringsAsRawJSON(t *testing.T) {
	v := NewVerifier(testToken, 0)
	user := `{"id":7,"first_name":"Bo"}`
	body := `{"auth_date":1700000000,"allows_write_to_pm":true,"user":` + user + `,"hash":"%s"}`

	raw := Sign(map[string]string{"auth_date": "1700000000", "allows_write_to_pm": "true", "user": user}, testToken)
	_, err := v.Verify(fmt.Sprintf(body, raw))
	require.NoError(t, err)

	repr := Sign(map[string]string{"auth_date": "1700000000", "allows_write_to_pm": "True", "user": `{'id': 7, 'first_name': 'Bo'}`}, testToken)
	_, err = v.Verify(fmt.Sprintf(body, repr))
	assert.ErrorIs(t, err, ErrHashMismatch)
}

func TestVerifyJSONDetectsEveryValueMutation(t *testing.T) {
	v := NewVerifier(testToken, 0)
	pairs := basePairs()
	hash := Sign(pairs, testToken)

	for key, value := range pairs {
		mutated := make(map[string]string, len(pairs)+1)
		for k, val := range pairs {
			mutated[k] = val
		}
		mutated[key] = value[:len(value)-1] + "x"
		mutated["hash"] = hash

		b, err := json.Marshal(mutated)
		require.NoError(t, err)

		_, err = v.Verify(string(b))
		assert.ErrorIs(t, err, ErrHashMismatch, "mutating %s must invalidate the hash", key)
	}
}

func TestSignIsDeterministic(t *testing.T) {
	pairs := basePairs()
	assert.Equal(t, Sign(pairs, testToken), Sign(pairs, testToken))
	assert.NotEqual(t, Sign(pairs, testToken), Sign(pairs, "other-token"))
}

func TestVerifyJSONFailures(t *testing.T) {
	v := NewVerifier(testToken, 0)

	noUser := map[string]string{"auth_date": "1700000000"}
	zeroID := map[string]string{"user": `{"id":0,"first_name":"Z"}`}
	badUser := map[string]string{"user": `{not json`}

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty", "   ", ErrEmpty},
		{"broken json", `{"user":`, ErrMalformed},
		{"array", `[1,2]`, ErrHashMismatch},
		{"missing hash", `{"user":{"id":1}}`, ErrHashMissing},
		{"wrong hash", `{"user":{"id":1},"hash":"deadbeef"}`, ErrHashMismatch},
		{"no user", signedJSON(t, testToken, noUser), ErrUserMissing},
		{"zero user id", signedJSON(t, testToken, zeroID), ErrUserMissing},
		{"user string is not json", signedJSON(t, testToken, badUser), ErrMalformed},
		{"signed with other token", signedJSON(t, "other", basePairs()), ErrHashMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.raw)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestVerifyJSONRejectsRepeatedKeys(t *testing.T) {
	v := NewVerifier(testToken, 0)
	own := `{"id":111,"first_name":"Eve"}`
	hash := Sign(map[string]string{"auth_date": "1700000000", "user": own}, testToken)

	tests := []struct {
		name string
		raw  string
	}{
		{"user before signed user", `{"user":{"id":999,"first_name":"Other"},"auth_date":"1700000000","user":` + own + `,"hash":"` + hash + `"}`},
		{"user after signed user", `{"auth_date":"1700000000","user":` + own + `,"user":{"id":999},"hash":"` + hash + `"}`},
		{"repeated hash", `{"auth_date":"1700000000","user":` + own + `,"hash":"x","hash":"` + hash + `"}`},
		{"repeated auth_date", `{"auth_date":"1","auth_date":"1700000000","user":` + own + `,"hash":"` + hash + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := v.Verify(tt.raw)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Zero(t, id.ID)
		})
	}
}

func TestVerifyJSONIdentityIsTheSignedUser(t *testing.T) {
	own := `{"id":111,"first_name":"Eve"}`
	hash := Sign(map[string]string{"auth_date": "1700000000", "user": own}, testToken)
	raw := `{"auth_date":"1700000000","user":` + own + `,"hash":"` + hash + `"}`

	id, err := NewVerifier(testToken, 0).Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(111), id.ID)
}

func TestVerifyRequiresToken(t *testing.T) {
	_, err := NewVerifier("", 0).Verify(signedJSON(t, testToken, basePairs()))
	assert.ErrorIs(t, err, ErrTokenMissing)
}

func TestVerifyJSONTTL(t *testing.T) {
	v := NewVerifier(testToken, time.Hour)

	fresh := basePairs()
	_, err := v.Verify(signedJSON(t, testToken, fresh))
	assert.NoError(t, err)

	stale := basePairs()
	stale["auth_date"] = strconv.FormatInt(time.Now().Add(-2*time.Hour).Unix(), 10)
	_, err = v.Verify(signedJSON(t, testToken, stale))
	assert.ErrorIs(t, err, ErrExpired)

	undated := basePairs()
	delete(undated, "auth_date")
	_, err = v.Verify(signedJSON(t, testToken, undated))
	assert.ErrorIs(t, err, ErrAuthDateMissed)
}

func TestVerifyQueryString(t *testing.T) {
	v := NewVerifier(testToken, 0)

	id, err := v.Verify(signedQuery(testToken, basePairs()))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.ID)
	assert.Equal(t, "Ann", id.FirstName)

	_, err = v.Verify(signedQuery("other", basePairs()))
	assert.ErrorIs(t, err, ErrHashMismatch)

	noUser := basePairs()
	delete(noUser, "user")
	_, err = v.Verify(signedQuery(testToken, noUser))
	assert.ErrorIs(t, err, ErrUserMissing)
}

func TestVerifyQueryStringRejectsRepeatedKeys(t *testing.T) {
	raw := signedQuery(testToken, basePairs()) + "&" + url.Values{"user": {`{"id":999}`}}.Encode()

	_, err := NewVerifier(testToken, 0).Verify(raw)
	assert.ErrorIs(t, err, ErrMalformed)
}
