package models

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const MaxTitleLength = 200

var emailRegexp = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

// ValidationError maps field names to the first problem found for them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type Validator struct {
	errors map[string]string
}

func NewValidator() *Validator {
	return &Validator{errors: make(map[string]string)}
}

func (v *Validator) Check(cond bool, key, msg string) {
	if cond {
		return
	}
	if _, ok := v.errors[key]; !ok {
		v.errors[key] = msg
	}
}

func (v *Validator) HasErrors() bool {
	return len(v.errors) != 0
}

// Err returns nil when no check failed.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return &ValidationError{Fields: v.errors}
}

func (v *Validator) CheckTitle(title string) {
	v.Check(strings.TrimSpace(title) != "", "title", "must be provided")
	v.Check(utf8.RuneCountInString(title) <= MaxTitleLength, "title", "must be at most 200 characters")
}

func (v *Validator) CheckEmail(email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(emailRegexp.MatchString(email), "email", "must be a valid email address")
}

func (v *Validator) CheckPassword(password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 characters long")
	v.Check(len(password) <= 72, "password", "must be at most 72 characters long")
}

func ValidateNote(n Note) error {
	v := NewValidator()
	v.CheckTitle(n.Title)
	v.Check(strings.TrimSpace(n.Content) != "", "content", "must be provided")
	v.Check(n.Category.Valid(), "category", "must be one of General, Work, Personal, Ideas, To-Do")
	return v.Err()
}

func ValidateTask(t Task) error {
	v := NewValidator()
	v.CheckTitle(t.Title)
	v.Check(t.Priority.Valid(), "priority", "must be one of low, medium, high")
	return v.Err()
}

func ValidateRegistration(name, email, password string) error {
	v := NewValidator()
	v.Check(strings.TrimSpace(name) != "", "name", "must be provided")
	v.Check(len(name) <= 255, "name", "must be at most 255 characters")
	v.CheckEmail(email)
	v.CheckPassword(password)
	return v.Err()
}
