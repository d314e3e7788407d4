package security

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "Valid password", password: "securePassword123!"},
		{name: "Empty password", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEmptyPassword)
				assert.True(t, hash.IsZero())
				return
			}

			require.NoError(t, err)
			assert.False(t, hash.IsZero())
			assert.NotContains(t, hash.digest, tt.password)
			assert.True(t, hash.Verify(tt.password))
		})
	}
}

func TestHashPassword_IsSalted(t *testing.T) {
	a, err := HashPassword("bar")
	require.NoError(t, err)
	b, err := HashPassword("bar")
	require.NoError(t, err)

	assert.NotEqual(t, a.digest, b.digest)
	assert.True(t, a.Verify("bar"))
	assert.True(t, b.Verify("bar"))
}

func TestHashedPassword_Verify(t *testing.T) {
	hash, err := HashPassword("testPassword123!")
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     HashedPassword
		password string
		want     bool
	}{
		{"Matching password", hash, "testPassword123!", true},
		{"Wrong password", hash, "wrongPassword", false},
		{"Empty password", hash, "", false},
		{"Zero hash", HashedPassword{}, "testPassword123!", false},
		{"Malformed digest", HashedPassword{digest: "not-a-bcrypt-hash"}, "testPassword123!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.hash.Verify(tt.password))
		})
	}
}

func TestHashedPassword_ScanAndValue(t *testing.T) {
	hash, err := HashPassword("bar")
	require.NoError(t, err)

	v, err := hash.Value()
	require.NoError(t, err)

	var fromString HashedPassword
	require.NoError(t, fromString.Scan(v))
	assert.True(t, fromString.Verify("bar"))

	var fromBytes HashedPassword
	require.NoError(t, fromBytes.Scan([]byte(v.(string))))
	assert.True(t, fromBytes.Verify("bar"))

	var fromNil HashedPassword
	require.NoError(t, fromNil.Scan(nil))
	assert.True(t, fromNil.IsZero())

	assert.Error(t, fromNil.Scan(42))

	_, err = HashedPassword{}.Value()
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestHashedPassword_NeverLeaks(t *testing.T) {
	hash, err := HashPassword("bar")
	require.NoError(t, err)

	assert.Equal(t, "[redacted]", hash.String())

	_, err = json.Marshal(struct {
		Password HashedPassword `json:"password"`
	}{hash})
	assert.Error(t, err)
}
