package validator

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

const (
	maxNameLen        = 100
	maxDescriptionLen = 2000
	maxCommentLen     = 500
)

func ValidateRegister(firstName, lastName, email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		errs.Add("first_name", "First name is required")
	} else if utf8.RuneCountInString(firstName) > maxNameLen {
		errs.Add("first_name", "First name is too long")
	}

	lastName = strings.TrimSpace(lastName)
	if lastName == "" {
		errs.Add("last_name", "Last name is required")
	} else if utf8.RuneCountInString(lastName) > maxNameLen {
		errs.Add("last_name", "Last name is too long")
	}

	validateEmail(email, errs)

	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
	}

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(email, errs)

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidatePost(description string) ValidationErrors {
	errs := make(ValidationErrors)

	description = strings.TrimSpace(description)
	if description == "" {
		errs.Add("description", "Description is required")
	} else if utf8.RuneCountInString(description) > maxDescriptionLen {
		errs.Add("description", "Description is too long")
	}

	return errs
}

func ValidateComment(text string) ValidationErrors {
	errs := make(ValidationErrors)

	text = strings.TrimSpace(text)
	if text == "" {
		errs.Add("comment", "Comment is required")
	} else if utf8.RuneCountInString(text) > maxCommentLen {
		errs.Add("comment", "Comment must be at most 500 characters")
	}

	return errs
}

func validateEmail(email string, errs ValidationErrors) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}
}
