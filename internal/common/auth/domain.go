// internal/common/auth/domain.go
package auth

import (
	"fmt"
	"strings"
)

// EmailHasDomain reports whether email belongs to domain or one of its subdomains.
func EmailHasDomain(email, domain string) bool {
	domain = strings.ToLower(strings.TrimSpace(domain))
	at := strings.LastIndex(email, "@")
	if domain == "" || at <= 0 || at == len(email)-1 {
		return false
	}
	host := strings.ToLower(strings.TrimSpace(email[at+1:]))
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// DomainErrorMessage is shown when a signed-in account is outside the institution.
func DomainErrorMessage(institution, domain string) string {
	return fmt.Sprintf("Please use a %s email address (@%s)", institution, domain)
}
