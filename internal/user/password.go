package user

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// allowed registration domains
var allowedDomains = []string{"@gmail.com", "@student.tarc.edu.my"}

func ValidEmailDomain(email string) bool {
	lower := strings.ToLower(strings.TrimSpace(email))
	for _, d := range allowedDomains {
		if strings.HasSuffix(lower, d) {
			return true
		}
	}
	return false
}
