// Package schema описывает схемы тел запросов явными дескрипторами полей
// и проверяет по ним разобранный JSON.
//
// Схема — это список полей с типом, признаком необязательности, правилами
// validator для строковых значений и вложенной схемой для объектов.
// Проверка не опирается на теги структур: она идёт по дескрипторам и
// разобранному телу map[string]any.
package schema

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator"
)

// Kind — тип значения поля.
type Kind int

const (
	// String — строковое поле.
	String Kind = iota
	// Object — вложенный объект, проверяется по Nested.
	Object
)

// Field описывает одно поле тела запроса.
type Field struct {
	Name     string
	Kind     Kind
	Optional bool
	// Rules — теги validator, применяемые к строковому значению, например "email".
	Rules  string
	Nested *Schema
}

// Schema — набор полей тела запроса.
type Schema struct {
	Name   string
	Fields []Field
}

// Validator проверяет тела запросов по схемам.
type Validator struct {
	validate *validator.Validate
}

// New создаёт Validator.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate проверяет body по схеме s и возвращает плоский список нарушений.
//
// Отсутствующее поле и поле со значением null считаются незаданными.
// В режиме partial незаданные поля не проверяются, иначе они допустимы
// только для Optional. Поля, которых нет в схеме, игнорируются.
func (v *Validator) Validate(s *Schema, body map[string]any, partial bool) []string {
	return v.validateObject(s, body, partial, "")
}

func (v *Validator) validateObject(s *Schema, body map[string]any, partial bool, prefix string) []string {
	var violations []string
	for _, f := range s.Fields {
		path := prefix + f.Name
		value, ok := body[f.Name]
		if !ok || value == nil {
			if !partial && !f.Optional {
				violations = append(violations, fmt.Sprintf("%s should not be empty", path))
			}
			continue
		}

		switch f.Kind {
		case String:
			str, isString := value.(string)
			if !isString {
				violations = append(violations, fmt.Sprintf("%s must be a string", path))
				continue
			}
			if f.Rules == "" {
				continue
			}
			if err := v.validate.Var(str, f.Rules); err != nil {
				violations = append(violations, ruleMessages(path, err)...)
			}
		case Object:
			obj, isObject := value.(map[string]any)
			if !isObject {
				violations = append(violations, fmt.Sprintf("%s must be an object", path))
				continue
			}
			if f.Nested != nil {
				// вложенный объект проверяется целиком даже при partial
				violations = append(violations, v.validateObject(f.Nested, obj, false, path+".")...)
			}
		}
	}
	return violations
}

func ruleMessages(path string, err error) []string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []string{fmt.Sprintf("%s is not valid", path)}
	}

	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s should not be empty", path))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be an email", path))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be longer than or equal to %s characters", path, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be shorter than or equal to %s characters", path, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is not valid", path))
		}
	}
	return msgs
}
