package utils

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 12

const birthDateLayout = "02/01/2006"

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CalculateAge returns full years elapsed since a dd/mm/yyyy birth date.
func CalculateAge(birthDate string, now time.Time) (int, error) {
	born, err := time.Parse(birthDateLayout, birthDate)
	if err != nil {
		return 0, fmt.Errorf("invalid birth date %q: %w", birthDate, err)
	}
	age := now.Year() - born.Year()
	if now.YearDay() < born.YearDay() {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age, nil
}

// GetContrastingTextColor picks black or white text for a hex background
// color using the YIQ brightness formula.
func GetContrastingTextColor(hexColor string) string {
	hex := strings.TrimPrefix(hexColor, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return "#FFFFFF"
	}

	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return "#FFFFFF"
	}

	yiq := (r*299 + g*587 + b*114) / 1000
	if yiq >= 128 {
		return "#000000"
	}
	return "#FFFFFF"
}
