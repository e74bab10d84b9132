// Package token реализует выпуск идентификационных токенов модераторов.
//
// Токен — это hex-представление SHA-256 от 256 случайных байт. Энтропии
// достаточно, чтобы коллизия была пренебрежимо маловероятной, но не
// доказуемо исключённой: уникальность гарантирует ограничение в базе,
// а жизненный цикл модератора повторяет выпуск при конфликте.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Issuer выпускает токены из источника случайности. Источник внедряется,
// чтобы тесты могли подставить детерминированный.
type Issuer struct {
	rnd io.Reader
}

// New создаёт Issuer на криптографическом источнике случайности.
func New() *Issuer {
	return &Issuer{rnd: rand.Reader}
}

// NewWithSource создаёт Issuer на заданном источнике случайности.
func NewWithSource(rnd io.Reader) *Issuer {
	return &Issuer{rnd: rnd}
}

// Issue возвращает новый токен.
func (i *Issuer) Issue() (string, error) {
	const op = "token.Issue"
	buf := make([]byte, 256)
	if _, err := io.ReadFull(i.rnd, buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:]), nil
}
