package utils

import (
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID gera ids curtos usados pelos widgets
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, 10)
}

func GenerateUUID() string {
	return uuid.NewString()
}
