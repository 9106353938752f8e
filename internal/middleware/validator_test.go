package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateQuery(t *testing.T) {
	assert.NoError(t, ValidateQuery("Summarize revenue trends"))
	assert.Error(t, ValidateQuery(""))
	assert.Error(t, ValidateQuery("   \t "))
	assert.Error(t, ValidateQuery(strings.Repeat("x", maxQueryLen+1)))
}

func TestValidateRecordID(t *testing.T) {
	assert.NoError(t, ValidateRecordID("123e4567-e89b-42d3-a456-426614174000"))
	assert.Error(t, ValidateRecordID(""))
	assert.Error(t, ValidateRecordID("not-a-uuid"))
	assert.Error(t, ValidateRecordID("../../etc/passwd"))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "report.pdf", SanitizeFilename("report.pdf"))
	assert.Equal(t, "report.pdf", SanitizeFilename("/tmp/up/report.pdf"))
	assert.Equal(t, "report.pdf", SanitizeFilename(`C:\Users\x\report.pdf`))
	assert.Equal(t, "upload.pdf", SanitizeFilename(""))
	assert.Equal(t, "upload.pdf", SanitizeFilename(".."))
	assert.Equal(t, "evil.pdf", SanitizeFilename("..\\evil.pdf"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("hel\x00lo"))
	assert.Equal(t, "a b", SanitizeString("  a b \r\n"))
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 20, ValidateLimit(-5))
	assert.Equal(t, 50, ValidateLimit(50))
	assert.Equal(t, 100, ValidateLimit(1000))
}
