package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWebURL(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://www.example.com",
		"https://pictures.s3.yandex.net/resources/jacques-cousteau_1604399756.png",
		"https://example.com/path/to?query=1&b=2#fragment",
		"http://sub.domain.example.org:8080/x",
	}
	for _, s := range valid {
		assert.True(t, IsWebURL(s), s)
	}

	invalid := []string{
		"",
		"example.com",
		"ftp://example.com",
		"https://",
		"https://localhost",
		"https://exa mple.com",
		"javascript:alert(1)",
	}
	for _, s := range invalid {
		assert.False(t, IsWebURL(s), s)
	}
}

func TestIsObjectID(t *testing.T) {
	assert.True(t, IsObjectID("64b7f0c2a1b2c3d4e5f60718"))
	assert.True(t, IsObjectID("64B7F0C2A1B2C3D4E5F60718"))
	assert.False(t, IsObjectID("64b7f0c2a1b2c3d4e5f6071"))   // 23 chars
	assert.False(t, IsObjectID("64b7f0c2a1b2c3d4e5f607189")) // 25 chars
	assert.False(t, IsObjectID("0x7f0c2a1b2c3d4e5f607189"))
	assert.False(t, IsObjectID("zzzzzzzzzzzzzzzzzzzzzzzz"))
}

type sample struct {
	Name  *string `json:"name" validate:"omitnil,min=2,max=30"`
	Email string  `json:"email" validate:"required,email"`
	Link  string  `json:"link" validate:"required,weburl"`
}

func TestStructReportsEveryViolation(t *testing.T) {
	short := "a"
	err := Struct(sample{Name: &short, Email: "nope", Link: "not a url"})
	require.Error(t, err)

	var vErr *Error
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Violations, 3)
	assert.Equal(t, "name", vErr.Violations[0].Field)
	assert.Equal(t, "min", vErr.Violations[0].Rule)
	assert.Contains(t, err.Error(), `"email" must be a valid email`)
	assert.Contains(t, err.Error(), `"link" must be a valid URL`)
}

func TestStructSkipsAbsentOptionalFields(t *testing.T) {
	err := Struct(sample{Email: "a@b.com", Link: "https://example.com"})
	assert.NoError(t, err)
}

func TestStructRejectsEmptyOptionalString(t *testing.T) {
	empty := ""
	err := Struct(sample{Name: &empty, Email: "a@b.com", Link: "https://example.com"})
	assert.Error(t, err)
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("cardId", "64b7f0c2a1b2c3d4e5f60718", "required,"+ObjectIDTag))

	err := Var("cardId", "123", "required,"+ObjectIDTag)
	require.Error(t, err)
	assert.Equal(t, `"cardId" must be a 24 character hex identifier`, err.Error())
}
