package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid reports whether the address's domain resolves to a mail
// host. MX is authoritative; a bare A/AAAA record is accepted as a fallback.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	ips, err := net.LookupIP(domain)
	return err == nil && len(ips) > 0
}
