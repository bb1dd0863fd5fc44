package models

import "time"

type User struct {
	ID                 string    `json:"id" bson:"_id"`
	Email              string    `json:"email" bson:"email"`
	Username           string    `json:"username" bson:"username"`
	Password           string    `json:"-" bson:"password"`
	IsActive           bool      `json:"isActive" bson:"isActive"`
	VerificationCode   string    `json:"-" bson:"verificationCode,omitempty"`
	VerificationExpiry time.Time `json:"-" bson:"verificationExpiry,omitempty"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt"`
}
