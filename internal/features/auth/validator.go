package auth

import (
	"strings"

	"github.com/birimengo/mytrade-api/internal/pkg/validator"
)

// ValidateRegister checks the signup payload field by field.
func ValidateRegister(req *RegisterRequest) validator.FieldErrors {
	var errs validator.FieldErrors

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if !validator.IsValidEmail(req.Email) {
		errs.Add("email", "invalid email address")
	}
	if !validator.IsStrongPassword(req.Password) {
		errs.Add("password", "password must be at least 8 characters with upper, lower and digit")
	}
	if len(req.Name) < 2 || len(req.Name) > 100 {
		errs.Add("name", "name must be between 2 and 100 characters")
	}
	if req.Phone != "" && !validator.IsValidPhone(req.Phone) {
		errs.Add("phone", "invalid phone number")
	}

	return errs
}

// ValidateNotifications checks the notification settings payload.
func ValidateNotifications(req *UpdateNotificationsRequest) validator.FieldErrors {
	var errs validator.FieldErrors

	if req.WhatsAppPhone != nil && *req.WhatsAppPhone != "" && !validator.IsValidPhone(*req.WhatsAppPhone) {
		errs.Add("whatsappPhone", "invalid phone number")
	}

	return errs
}
