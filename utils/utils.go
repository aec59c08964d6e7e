package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

const orderNumberLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewOrderNumber returns a human readable order reference such as "K3XQ7-48213".
func NewOrderNumber() string {
	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteByte(orderNumberLetters[rand.Intn(len(orderNumberLetters))])
	}
	return fmt.Sprintf("%s-%d", b.String(), 10000+rand.Intn(90000))
}
