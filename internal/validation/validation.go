// Package validation checks user input before it reaches the services.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "senha", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "senha", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "nome", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "nome", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateTopic checks the subject and topic of a study
func ValidateTopic(subject, topic string) error {
	if strings.TrimSpace(subject) == "" {
		return ValidationError{Field: "materia", Message: "subject is required"}
	}
	if strings.TrimSpace(topic) == "" {
		return ValidationError{Field: "topico", Message: "topic is required"}
	}
	return nil
}

// ValidateQuiz checks that a quiz has a question, at least two options and
// that the correct option is one of them
func ValidateQuiz(question string, options map[string]string, correct string) error {
	if strings.TrimSpace(question) == "" {
		return ValidationError{Field: "quiz_pergunta", Message: "quiz question is required"}
	}
	if len(options) < 2 {
		return ValidationError{Field: "opcoes", Message: "a quiz needs at least two options"}
	}
	if _, ok := options[correct]; !ok {
		return ValidationError{Field: "quiz_resposta_correta", Message: "correct option must be one of the options"}
	}
	return nil
}
