package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,phone"`
	Email string `json:"email" validate:"omitempty,email"`
	Extra struct {
		Quantity int `json:"quantity" validate:"gte=1"`
	} `json:"extra"`
}

func TestIsPhone(t *testing.T) {
	for _, ok := range []string{"+213555000111", "213555000111", "+12"} {
		assert.True(t, IsPhone(ok), ok)
	}
	for _, bad := range []string{"", "+0555", "0555000111", "+1", "+1234567890123456", "12a4", "+213 555"} {
		assert.False(t, IsPhone(bad), bad)
	}
	assert.Equal(t, "+213555000111", NormalizePhone(" +213 (555) 000-111 "))
}

func TestStructReportsJSONFields(t *testing.T) {
	v := New()
	c := contact{Phone: "0555", Email: "nope"}
	err := Struct(v, c)

	var verr *Error
	require.True(t, errors.As(err, &verr), "got %v", err)

	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "invalid phone number", fields["phone"])
	assert.Equal(t, "invalid email format", fields["email"])
	assert.Equal(t, "must be at least 1", fields["extra.quantity"])
	assert.Contains(t, verr.Error(), "phone: invalid phone number")
}

func TestStructAcceptsValid(t *testing.T) {
	c := contact{Name: "Amel", Phone: "+213555000111"}
	c.Extra.Quantity = 1
	assert.NoError(t, Struct(New(), c))
}
