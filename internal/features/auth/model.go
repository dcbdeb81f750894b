package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationSettings holds a user's reminder delivery preferences.
// CallMeBot requires the user to register their own phone with the
// gateway, which issues the per-user API key stored here.
type NotificationSettings struct {
	WhatsAppEnabled bool   `bson:"whatsappEnabled" json:"whatsappEnabled"`
	WhatsAppPhone   string `bson:"whatsappPhone" json:"whatsappPhone"`
	CallMeBotKey    string `bson:"callMeBotKey" json:"-"`
}

// User represents a registered supplier account
type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email         string               `bson:"email" json:"email"`
	PasswordHash  string               `bson:"passwordHash" json:"-"`
	Name          string               `bson:"name" json:"name"`
	Phone         string               `bson:"phone" json:"phone"`
	Notifications NotificationSettings `bson:"notifications" json:"notifications"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// RegisterRequest represents the signup payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned after successful authentication
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
}

// UpdateNotificationsRequest updates reminder delivery preferences
type UpdateNotificationsRequest struct {
	WhatsAppEnabled *bool   `json:"whatsappEnabled"`
	WhatsAppPhone   *string `json:"whatsappPhone"`
	CallMeBotKey    *string `json:"callMeBotKey"`
}
