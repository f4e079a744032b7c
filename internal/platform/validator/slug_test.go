package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harborworks/cms/internal/platform/validator"
)

func TestValidateSlugFormat(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr error
	}{
		{"valid slug", "annual-report-2026", nil},
		{"single word", "donate", nil},
		{"empty", "", validator.ErrSlugEmpty},
		{"uppercase rejected", "Annual-Report", validator.ErrInvalidSlugFormat},
		{"spaces rejected", "annual report", validator.ErrInvalidSlugFormat},
		{"special characters rejected", "gala&auction", validator.ErrInvalidSlugFormat},
		{"too long", "a-very-long-slug-that-keeps-going", validator.ErrSlugTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateSlugFormat(tt.slug, 30)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxLength int
		want      string
	}{
		{"lowercases and hyphenates", "Spring Gala 2026", 50, "spring-gala-2026"},
		{"strips punctuation", "Food Drive: Week #3!", 50, "food-drive-week-3"},
		{"collapses hyphens", "a  --  b", 50, "a-b"},
		{"trims leading and trailing hyphens", "  Hello  ", 50, "hello"},
		{"truncates without trailing hyphen", "community garden volunteers", 17, "community-garden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.GenerateSlug(tt.input, tt.maxLength))
		})
	}
}

func TestMakeSlugUniqueWithMaxLength(t *testing.T) {
	tests := []struct {
		name      string
		base      string
		suffix    int
		maxLength int
		want      string
	}{
		{"zero suffix returns base", "spring-gala", 0, 30, "spring-gala"},
		{"appends suffix", "spring-gala", 2, 30, "spring-gala-2"},
		{"truncates base to fit suffix", "spring-gala", 7, 12, "spring-gal-7"},
		{"truncated base drops trailing hyphen", "spring-", 3, 8, "spring-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.MakeSlugUniqueWithMaxLength(tt.base, tt.suffix, tt.maxLength))
		})
	}
}

func TestSlugifyTitle(t *testing.T) {
	slug, err := validator.SlugifyTitle("Volunteer Spotlight: March", 40)
	assert.NoError(t, err)
	assert.Equal(t, "volunteer-spotlight-march", slug)

	_, err = validator.SlugifyTitle("!!!", 40)
	assert.Error(t, err)
}
