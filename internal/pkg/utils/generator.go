package utils

import "github.com/google/uuid"

func GenerateRequestID() string {
	return uuid.NewString()
}

func GenerateTransmissionID() string {
	return uuid.NewString()
}
