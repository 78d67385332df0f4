package domain

import (
	"testing"

	"github.com/smallbiznis/quoteflow/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContact() Contact {
	return Contact{
		FirstName: "Sari",
		Email:     "sari@example.co.id",
		Company:   "PT Maju Jaya",
		Phone:     "+62 812 0000 0000",
	}
}

func TestContactValidateAcceptsRequiredFieldsOnly(t *testing.T) {
	assert.NoError(t, validContact().Validate())
}

func TestContactValidateReportsEveryMissingField(t *testing.T) {
	err := Contact{LastName: "Wijaya", Role: "CFO"}.Validate()
	require.Error(t, err)

	fe, ok := validation.AsFieldErrors(err)
	require.True(t, ok)

	fields := make([]string, 0, len(fe))
	for _, e := range fe {
		fields = append(fields, e.Field)
		assert.Equal(t, "required", e.Code)
	}
	assert.Equal(t, []string{"first_name", "email", "company", "phone"}, fields)

	first, ok := fe.First()
	require.True(t, ok)
	assert.Equal(t, "first_name", first.Field)
}

func TestContactEmailShape(t *testing.T) {
	cases := []struct {
		email string
		valid bool
	}{
		{"a@b.co", true},
		{"first.last+tag@sub.example.com", true},
		{"plain", false},
		{"no-domain@", false},
		{"no-tld@example", false},
		{"spaces in@example.com", false},
		{"@example.com", false},
	}

	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			c := validContact()
			c.Email = tc.email
			err := c.Validate()
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			fe, ok := validation.AsFieldErrors(err)
			require.True(t, ok)
			assert.Equal(t, "invalid_email", fieldErrorCode(fe, "email"))
		})
	}
}

func TestBlankFieldsCountAsMissing(t *testing.T) {
	c := validContact()
	c.Company = "   "
	fe, ok := validation.AsFieldErrors(c.Validate())
	require.True(t, ok)
	assert.True(t, fe.Has("company"))
}

func TestQuotationCloneIsDeep(t *testing.T) {
	q := Quotation{
		Plan:    PlanSnapshot{ID: "starter", Features: []string{"Cloud hosting"}},
		Modules: []string{"CRM"},
	}
	cp := q.Clone()
	cp.Plan.Features[0] = "changed"
	cp.Modules[0] = "changed"

	assert.Equal(t, "Cloud hosting", q.Plan.Features[0])
	assert.Equal(t, "CRM", q.Modules[0])
}

func fieldErrorCode(fe validation.FieldErrors, field string) string {
	for _, e := range fe {
		if e.Field == field {
			return e.Code
		}
	}
	return ""
}
