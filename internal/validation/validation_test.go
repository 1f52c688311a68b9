package validation_test

import (
	"testing"
	"time"

	"brutarie/internal/validation"

	"github.com/stretchr/testify/assert"
)

func TestCustomFieldRules(t *testing.T) {
	v := validation.New()

	type form struct {
		Username  string `validate:"omitempty,username_chars"`
		Phone     string `validate:"omitempty,phone_number"`
		Title     string `validate:"omitempty,titlecase_text"`
		Name      string `validate:"omitempty,letters_only"`
		Calories  int    `validate:"calories_step"`
		Allergens string `validate:"omitempty,allergen_list"`
	}

	tests := []struct {
		name    string
		in      form
		wantErr bool
	}{
		{"valid username with dot and underscore", form{Username: "john.doe_99"}, false},
		{"username with dash rejected", form{Username: "john-doe"}, true},
		{"username with space rejected", form{Username: "john doe"}, true},
		{"phone ten digits", form{Phone: "0712345678"}, false},
		{"phone with plus prefix", form{Phone: "+40712345678"}, false},
		{"phone too short", form{Phone: "123456789"}, true},
		{"phone sixteen digits rejected", form{Phone: "1234567890123456"}, true},
		{"phone with letters rejected", form{Phone: "07123A5678"}, true},
		{"titlecase accepted", form{Title: "Hello There"}, false},
		{"lowercase first word rejected", form{Title: "hello There"}, true},
		{"titlecase with digits rejected", form{Title: "Hello 2 You"}, true},
		{"letters only accepted", form{Name: "Croissant"}, false},
		{"letters only with space rejected", form{Name: "Pain au"}, true},
		{"calories multiple of five", form{Calories: 505}, false},
		{"calories off step rejected", form{Calories: 502}, true},
		{"five allergens accepted", form{Allergens: "nuts,milk,eggs,soy,wheat"}, false},
		{"six allergens rejected", form{Allergens: "a,b,c,d,e,f"}, true},
		{"allergen with digit rejected", form{Allergens: "nuts,milk2"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCollectUsesSnakeCaseFieldNames(t *testing.T) {
	v := validation.New()

	type form struct {
		FirstName   string   `validate:"required"`
		PhoneNumber string   `validate:"required,phone_number"`
		ProductIDs  []string `validate:"required,min=1"`
		BakeryID    string   `validate:"required"`
	}

	err := v.Struct(form{})
	assert.Error(t, err)

	fieldErrs := validation.Collect(err)
	assert.Contains(t, fieldErrs, "first_name")
	assert.Contains(t, fieldErrs, "phone_number")
	assert.Contains(t, fieldErrs, "product_ids")
	assert.Contains(t, fieldErrs, "bakery_id")
	assert.Equal(t, "This field cannot be left blank.", fieldErrs["first_name"])
}

func TestNormalizeMessage(t *testing.T) {
	in := "  Hello\nthere   my\n\nfriend  "
	assert.Equal(t, "Hello there my friend", validation.NormalizeMessage(in))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, validation.WordCount(""))
	assert.Equal(t, 5, validation.WordCount("one two three four five"))
}

func TestContainsURL(t *testing.T) {
	assert.True(t, validation.ContainsURL("visit http://example.com now"))
	assert.True(t, validation.ContainsURL("visit https://example.com now"))
	assert.False(t, validation.ContainsURL("no links here, just example.com text"))
}

func TestAgeYears(t *testing.T) {
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"birthday already passed this year", time.Date(2000, time.March, 1, 0, 0, 0, 0, time.UTC), 25},
		{"birthday later this year", time.Date(2000, time.December, 1, 0, 0, 0, 0, time.UTC), 24},
		{"birthday today", time.Date(2007, time.June, 15, 0, 0, 0, 0, time.UTC), 18},
		{"birthday tomorrow, still seventeen", time.Date(2007, time.June, 16, 0, 0, 0, 0, time.UTC), 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.AgeYears(tt.birth, today))
		})
	}
}

func TestAgeDescription(t *testing.T) {
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	birth := time.Date(2000, time.March, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "25 years and 3 months", validation.AgeDescription(birth, today))

	// Month underflow when the birthday month is ahead of today's.
	birth = time.Date(2000, time.October, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "24 years and 7 months", validation.AgeDescription(birth, today))
}
