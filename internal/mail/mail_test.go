package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage(
		"notifier@example.com",
		[]string{"a@example.com", "b@example.com"},
		"Stock prices notification",
		"AAPL has surpassed $100",
	))

	assert.Contains(t, msg, "From: notifier@example.com\r\n")
	assert.Contains(t, msg, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, msg, "Subject: Stock prices notification\r\n")

	// Body separated from headers by a blank line.
	parts := strings.SplitN(msg, "\r\n\r\n", 2)
	assert.Len(t, parts, 2)
	assert.Equal(t, "AAPL has surpassed $100", parts[1])
}
