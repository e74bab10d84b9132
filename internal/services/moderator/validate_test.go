package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusboard/campus-news/internal/apperr"
	"github.com/campusboard/campus-news/internal/models"
)

const validPasswordHash = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"

func validModerator() models.Moderator {
	return models.Moderator{
		Name:         "jane_doe",
		PasswordHash: validPasswordHash,
		Email:        "jane.doe@campus.example.org",
		FirstName:    "Jane",
		LastName:     "Doe",
		Motivation:   "I run the robotics club channel",
		Language:     models.LanguageEnglish,
	}
}

func TestValidateCreation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.Moderator)
		wantCode string
	}{
		{"valid account", func(_ *models.Moderator) {}, ""},
		{"missing name", func(m *models.Moderator) { m.Name = "" }, apperr.CodeIncompleteData},
		{"missing password", func(m *models.Moderator) { m.PasswordHash = "" }, apperr.CodeIncompleteData},
		{"missing motivation", func(m *models.Moderator) { m.Motivation = "" }, apperr.CodeIncompleteData},
		{"name too short", func(m *models.Moderator) { m.Name = "ab" }, apperr.CodeInvalidFormat},
		{"name with forbidden character", func(m *models.Moderator) { m.Name = "jane doe" }, apperr.CodeInvalidFormat},
		{"name longer than 35 characters", func(m *models.Moderator) { m.Name = strings.Repeat("a", 36) }, apperr.CodeInvalidFormat},
		{"password is not SHA-256 hex", func(m *models.Moderator) { m.PasswordHash = "secret" }, apperr.CodeInvalidFormat},
		{"password shorter than 64 characters", func(m *models.Moderator) { m.PasswordHash = validPasswordHash[:63] }, apperr.CodeInvalidFormat},
		{"email without domain", func(m *models.Moderator) { m.Email = "jane@" }, apperr.CodeInvalidFormat},
		{"first name longer than 45 characters", func(m *models.Moderator) { m.FirstName = strings.Repeat("j", 46) }, apperr.CodeInvalidFormat},
		{"last name longer than 45 characters", func(m *models.Moderator) { m.LastName = strings.Repeat("d", 46) }, apperr.CodeInvalidFormat},
		{"motivation longer than 300 characters", func(m *models.Moderator) { m.Motivation = strings.Repeat("x", 301) }, apperr.CodeInvalidFormat},
		{"non-ASCII first name within limit", func(m *models.Moderator) { m.FirstName = strings.Repeat("ü", 45) }, ""},
		{"non-ASCII first name longer than 45 characters", func(m *models.Moderator) { m.FirstName = strings.Repeat("ü", 46) }, apperr.CodeInvalidFormat},
		{"non-ASCII motivation within limit", func(m *models.Moderator) { m.Motivation = strings.Repeat("ß", 300) }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validModerator()
			tt.mutate(&m)
			err := ValidateCreation(&m)
			if tt.wantCode == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.wantCode, err.Code)
		})
	}
}

func TestValidateCreation_ReportsFirstInvalidField(t *testing.T) {
	// Проверки идут в фиксированном порядке, клиент видит первую ошибку.
	m := validModerator()
	m.Name = "x"
	m.Email = "broken"
	err := ValidateCreation(&m)
	require.NotNil(t, err)
	assert.Equal(t, "invalid name", err.Message)
}

func TestValidateSelfPatch(t *testing.T) {
	str := func(s string) *string { return &s }
	lang := func(l models.Language) *models.Language { return &l }

	tests := []struct {
		name     string
		patch    models.ModeratorPatch
		wantCode string
	}{
		{"empty patch", models.ModeratorPatch{}, apperr.CodeIncompleteData},
		{"admin flags only", models.ModeratorPatch{Locked: new(bool)}, apperr.CodeIncompleteData},
		{"new first name", models.ModeratorPatch{FirstName: str("Janet")}, ""},
		{"new email", models.ModeratorPatch{Email: str("janet@campus.example.org")}, ""},
		{"malformed email", models.ModeratorPatch{Email: str("janet@")}, apperr.CodeInvalidFormat},
		{"malformed password", models.ModeratorPatch{Password: str("plaintext")}, apperr.CodeInvalidFormat},
		{"valid password", models.ModeratorPatch{Password: str(validPasswordHash)}, ""},
		{"german language", models.ModeratorPatch{Language: lang(models.LanguageGerman)}, ""},
		{"unsupported language", models.ModeratorPatch{Language: lang("fr")}, apperr.CodeInvalidFormat},
		{"first name too long", models.ModeratorPatch{FirstName: str(strings.Repeat("a", 46))}, apperr.CodeInvalidFormat},
		{"non-ASCII last name within limit", models.ModeratorPatch{LastName: str(strings.Repeat("ö", 45))}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSelfPatch(tt.patch)
			if tt.wantCode == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.wantCode, err.Code)
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.Nil(t, ValidateName("jane_doe"))

	err := ValidateName("")
	require.NotNil(t, err)
	assert.Equal(t, apperr.CodeIncompleteData, err.Code)

	err = ValidateName("a b")
	require.NotNil(t, err)
	assert.Equal(t, apperr.CodeInvalidFormat, err.Code)
}

func TestValidateAuthCredentials(t *testing.T) {
	assert.Nil(t, ValidateAuthCredentials("jane_doe", validPasswordHash))

	// Нарушение формата неотличимо от неверных учётных данных.
	for _, tc := range [][2]string{
		{"", validPasswordHash},
		{"jane doe", validPasswordHash},
		{"jane_doe", ""},
		{"jane_doe", "not-a-hash"},
	} {
		err := ValidateAuthCredentials(tc[0], tc[1])
		require.NotNil(t, err)
		assert.Equal(t, apperr.CodeUnauthorized, err.Code)
	}
}
