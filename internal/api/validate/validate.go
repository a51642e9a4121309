// Package validate holds request payload validation rules.
package validate

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// langRx matches BCP-47-ish tags the app uses ("ja", "ko", "zh-TW").
var langRx = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z0-9]{2,8})*$`)

const (
	maxTitleLen   = 200
	maxContentLen = 100_000
	maxNameLen    = 100
)

// LanguageCode validates a study-language tag.
func LanguageCode(v string) error {
	return validation.Validate(v,
		validation.Required.Error("languageCode is required"),
		validation.Match(langRx).Error("languageCode must be a language tag like \"ja\" or \"zh-TW\""),
	)
}

// CreateNote validates input for creating a note.
func CreateNote(title, content, languageCode string) error {
	if err := LanguageCode(languageCode); err != nil {
		return err
	}
	return validation.Errors{
		"title": validation.Validate(strings.TrimSpace(title),
			validation.Required.Error("title is required"),
			validation.Length(1, maxTitleLen)),
		"content": validation.Validate(strings.TrimSpace(content),
			validation.Required.Error("content is required"),
			validation.Length(1, maxContentLen)),
	}.Filter()
}

// UpdateNote validates a note patch. At least one field must be present.
func UpdateNote(title, content *string) error {
	if title == nil && content == nil {
		return validation.NewError("validation_empty_patch", "at least one of title or content is required")
	}
	errs := validation.Errors{}
	if title != nil {
		errs["title"] = validation.Validate(strings.TrimSpace(*title),
			validation.Required.Error("title cannot be blank"),
			validation.Length(1, maxTitleLen))
	}
	if content != nil {
		errs["content"] = validation.Validate(strings.TrimSpace(*content),
			validation.Required.Error("content cannot be blank"),
			validation.Length(1, maxContentLen))
	}
	return errs.Filter()
}

// CreatePlaylist validates input for creating a playlist.
func CreatePlaylist(name, languageCode string) error {
	if err := LanguageCode(languageCode); err != nil {
		return err
	}
	return validation.Validate(strings.TrimSpace(name),
		validation.Required.Error("name is required"),
		validation.Length(1, maxNameLen),
	)
}

// SaveDocument validates a basic-document save request.
func SaveDocument(doc []byte, plain string) error {
	return validation.Errors{
		"doc":   validation.Validate(string(doc), validation.Required.Error("doc is required")),
		"plain": validation.Validate(plain, validation.Length(0, maxContentLen)),
	}.Filter()
}
