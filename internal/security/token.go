package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"vendor-upload-portal/internal/util"

	"golang.org/x/crypto/blake2b"
)

const (
	tokenBytes = 32
	// base64url без паддинга от 32 байт всегда 43 символа
	maxTokenLength = 64
)

// TokenCodec : выпуск и проверка токена портала.
// В БД хранится только ключевой BLAKE2b-256 хэш, сам секрет уходит поставщику в ссылке
type TokenCodec struct {
	pepper    []byte
	dummyHash string
}

func NewTokenCodec(pepper string) *TokenCodec {
	codec := &TokenCodec{pepper: []byte(pepper)}
	codec.dummyHash = codec.digest("unknown-upload-request")
	return codec
}

// Issue : генерирует новый секрет и его хэш
func (c *TokenCodec) Issue() (string, string, error) {
	secretBytes := make([]byte, tokenBytes)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", "", util.LogError("ошибка генерации токена", err)
	}

	secret := base64.RawURLEncoding.EncodeToString(secretBytes)
	return secret, c.digest(secret), nil
}

// Verify : сравнение за постоянное время, любые ошибки формата дают false
func (c *TokenCodec) Verify(candidate, storedHash string) bool {
	if candidate == "" || len(candidate) > maxTokenLength || storedHash == "" {
		return false
	}
	if _, err := base64.RawURLEncoding.DecodeString(candidate); err != nil {
		return false
	}

	expected, err := hex.DecodeString(storedHash)
	if err != nil {
		return false
	}
	actual, _ := hex.DecodeString(c.digest(candidate))

	return subtle.ConstantTimeCompare(expected, actual) == 1
}

// DummyHash : хэш, с которым сверяется токен, когда запрос не найден
func (c *TokenCodec) DummyHash() string {
	return c.dummyHash
}

func (c *TokenCodec) digest(secret string) string {
	var key []byte
	if len(c.pepper) > 0 {
		key = c.pepper
		if len(key) > blake2b.Size {
			sum := blake2b.Sum256(key)
			key = sum[:]
		}
	}

	h, err := blake2b.New256(key)
	if err != nil {
		sum := blake2b.Sum256([]byte(secret))
		return hex.EncodeToString(sum[:])
	}
	h.Write([]byte(secret))
	return hex.EncodeToString(h.Sum(nil))
}
