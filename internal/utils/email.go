package utils

import (
	"fmt"
	"strings"
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	localPart := parts[0]
	if len(localPart) <= 2 {
		return email
	}

	masked := string(localPart[0]) + strings.Repeat("*", len(localPart)-2) + string(localPart[len(localPart)-1])
	return masked + "@" + parts[1]
}

// VerificationLink builds the address mailed to a new account holder.
func VerificationLink(baseURL, userRef, token string) string {
	return fmt.Sprintf("%s/api/v1/auth/verify-email?uid=%s&token=%s", strings.TrimSuffix(baseURL, "/"), userRef, token)
}

// PasswordResetLink builds the address mailed on a reset request.
func PasswordResetLink(baseURL, userRef, token string) string {
	return fmt.Sprintf("%s/reset-password?uid=%s&token=%s", strings.TrimSuffix(baseURL, "/"), userRef, token)
}
