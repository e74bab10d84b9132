// Package password реализует хранение и проверку паролей модераторов.
//
// Клиент передаёт не сам пароль, а его SHA-256 в hex. GetHash заворачивает
// клиентский хэш в bcrypt для хранения, CompareHash проверяет соответствие.
// Generate выпускает новый случайный пароль для сброса.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// Алфавит и длина пароля, генерируемого при сбросе.
const (
	alphabet        = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	generatedLength = 12
)

// GetHash принимает клиентский хэш пароля и возвращает его bcrypt-хэш для
// хранения в базе данных.
func GetHash(passwordHash string) (string, error) {
	const op = "password.GetHash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(passwordHash), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash сравнивает хранимый bcrypt-хэш с клиентским хэшем пароля.
// Возвращает nil при совпадении.
func CompareHash(storedHash, passwordHash string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(passwordHash)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Sha256Hex возвращает hex-представление SHA-256 от строки. Используется при
// сбросе пароля, чтобы сервер хранил то же значение, которое позже пришлёт
// клиент.
func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Generator выпускает случайные пароли. Источник случайности внедряется для
// детерминированных тестов.
type Generator struct {
	rnd io.Reader
}

// NewGenerator создаёт Generator на криптографическом источнике.
func NewGenerator() *Generator {
	return &Generator{rnd: rand.Reader}
}

// NewGeneratorWithSource создаёт Generator на заданном источнике.
func NewGeneratorWithSource(rnd io.Reader) *Generator {
	return &Generator{rnd: rnd}
}

// Generate возвращает случайный пароль фиксированной длины из букв и цифр,
// каждый символ выбирается равномерно.
func (g *Generator) Generate() (string, error) {
	const op = "password.Generate"
	buf := make([]byte, generatedLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(g.rnd, max)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
