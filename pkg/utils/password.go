package utils

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost the user store has always hashed with.
const bcryptCost = 12

func HashPassword(pw string) string {
	b, _ := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	return string(b)
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
