package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type otpForm struct {
	Mobile string `json:"mobile" validate:"required,mobile"`
	Code   string `json:"code" validate:"required,len=6,numeric"`
}

type fileTypeForm struct {
	FileType string `json:"fileType" validate:"required,filetype"`
}

func TestValidateMobileRule(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&otpForm{Mobile: "09121234567", Code: "123456"}))
	assert.NoError(t, v.Validate(&otpForm{Mobile: "+989121234567", Code: "123456"}))

	err := v.Validate(&otpForm{Mobile: "not-a-number", Code: "123456"})
	require.Error(t, err)
	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	// В сообщениях используются имена полей из JSON-тегов
	assert.Contains(t, vErr.Errors, "mobile")
	assert.Equal(t, "must be a valid mobile number", vErr.Errors["mobile"])
}

func TestValidateOtpCode(t *testing.T) {
	v := New()

	err := v.Validate(&otpForm{Mobile: "09121234567", Code: "12ab56"})
	require.Error(t, err)
	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "code")
}

func TestValidateFileTypeRule(t *testing.T) {
	v := New()

	for _, ft := range []string{"logo", "banner", "video", "doc", "contract"} {
		assert.NoError(t, v.Validate(&fileTypeForm{FileType: ft}), "%s", ft)
	}

	err := v.Validate(&fileTypeForm{FileType: "avatar"})
	require.Error(t, err)
	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "must be one of: logo, banner, video, doc, contract", vErr.Errors["fileType"])
}

func TestValidateRequired(t *testing.T) {
	v := New()

	err := v.Validate(&otpForm{})
	require.Error(t, err)
	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "is required", vErr.Errors["mobile"])
	assert.Equal(t, "is required", vErr.Errors["code"])
}
