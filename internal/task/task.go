// Package task defines the task record and how new records get their keys.
package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Common validation errors.
var (
	// ErrValidation is returned when a task record fails validation.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyText is returned when task text is empty or whitespace-only.
	ErrEmptyText = fmt.Errorf("%w: task text cannot be empty", ErrValidation)

	// ErrEmptyKey is returned when a stored task has no key.
	ErrEmptyKey = fmt.Errorf("%w: task key cannot be empty", ErrValidation)
)

var validate = validator.New()

// Task is a single entry of the task list.
// JSON field names are part of the persisted format.
type Task struct {
	Key  string `json:"key" yaml:"key" validate:"required"`
	Text string `json:"text" yaml:"text" validate:"required"`
}

// UnmarshalJSON accepts the current {key,text} form and the older
// {key,task} form written by earlier versions of the app.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw struct {
		Key  string  `json:"key"`
		Text *string `json:"text"`
		Task *string `json:"task"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Key = raw.Key
	switch {
	case raw.Text != nil:
		t.Text = *raw.Text
	case raw.Task != nil:
		t.Text = *raw.Task
	default:
		t.Text = ""
	}
	return nil
}

// Validate checks that both key and text are present and not blank.
func (t Task) Validate() error {
	if err := validate.Struct(t); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Key" {
			return ErrEmptyKey
		}
		if errors.As(err, &verrs) {
			return ErrEmptyText
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyText
	}
	if strings.TrimSpace(t.Key) == "" {
		return ErrEmptyKey
	}
	return nil
}

// KeyStrategy names how keys are assigned to new tasks.
type KeyStrategy string

const (
	// KeyUUID assigns a random UUID to every new task.
	KeyUUID KeyStrategy = "uuid"

	// KeyText uses the task text as its key. Tasks with identical text
	// share a key, so deleting one deletes all of them.
	KeyText KeyStrategy = "text"
)

// KeyFunc derives the key for a new task from its text.
type KeyFunc func(text string) string

// KeyFuncFor returns the key function for the given strategy.
func KeyFuncFor(s KeyStrategy) (KeyFunc, error) {
	switch s {
	case KeyUUID, "":
		return func(string) string { return uuid.NewString() }, nil
	case KeyText:
		return func(text string) string { return text }, nil
	default:
		return nil, fmt.Errorf("unknown key strategy: %s", s)
	}
}

// New builds a task from input text using keyFn. The text is kept as typed;
// text that is blank once trimmed yields ErrEmptyText.
func New(text string, keyFn KeyFunc) (Task, error) {
	if strings.TrimSpace(text) == "" {
		return Task{}, ErrEmptyText
	}
	t := Task{Key: keyFn(text), Text: text}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}
