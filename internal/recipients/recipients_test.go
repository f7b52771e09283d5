package recipients_test

import (
	"errors"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/nzbget-notify/internal/recipients"
)

func TestParse(t *testing.T) {
	addrs, err := recipients.Parse("a@example.com, Bob <bob@example.org> ,,c@example.net")
	require.NoError(t, err)
	require.Len(t, addrs, 3)
	assert.Equal(t, "a@example.com", addrs[0].Address)
	assert.Equal(t, "Bob", addrs[1].Name)
	assert.Equal(t, []string{"a@example.com", "bob@example.org", "c@example.net"}, recipients.Envelope(addrs))
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := recipients.Parse("a@example.com,not an address")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `malformed address "not an address"`)
}

func TestParseEmpty(t *testing.T) {
	_, err := recipients.Parse(" , ")
	assert.True(t, errors.Is(err, recipients.ErrNoRecipients))
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "example.com", recipients.Domain(&mail.Address{Address: "me@Example.COM"}))
	assert.Equal(t, "", recipients.Domain(&mail.Address{Address: "local"}))
}
