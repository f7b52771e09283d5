package recipients

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/samber/lo"
)

// ErrNoRecipients is returned when the list holds no address at all
var ErrNoRecipients = errors.New("no recipients configured")

// Parse splits a comma-separated recipient list. Entries are trimmed,
// empty entries are dropped and every remaining entry must be a valid
// address, optionally with a display name.
func Parse(list string) ([]*mail.Address, error) {
	entries := lo.Compact(lo.Map(strings.Split(list, ","), func(entry string, _ int) string {
		return strings.TrimSpace(entry)
	}))
	if len(entries) == 0 {
		return nil, ErrNoRecipients
	}

	addresses := make([]*mail.Address, 0, len(entries))
	for _, entry := range entries {
		addr, err := ParseAddress(entry)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, addr)
	}
	return addresses, nil
}

// ParseAddress parses a single address such as "NZBGet <nzbget@example.com>"
func ParseAddress(s string) (*mail.Address, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("malformed address %q: %w", s, err)
	}
	return addr, nil
}

// Domain returns the lower-cased domain part of an address
func Domain(addr *mail.Address) string {
	parts := strings.Split(addr.Address, "@")
	if len(parts) != 2 {
		return ""
	}
	return strings.ToLower(parts[1])
}

// Envelope returns the bare addresses used for RCPT TO
func Envelope(addrs []*mail.Address) []string {
	return lo.Map(addrs, func(a *mail.Address, _ int) string {
		return a.Address
	})
}
