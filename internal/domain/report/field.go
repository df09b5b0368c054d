package report

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldType drives which operators and aggregates a field accepts
type FieldType string

const (
	FieldString   FieldType = "string"
	FieldNumber   FieldType = "number"
	FieldCurrency FieldType = "currency"
	FieldDate     FieldType = "date"
	FieldEnum     FieldType = "enum"
	FieldBoolean  FieldType = "boolean"
)

// IsNumeric reports whether values of the type can be summed
func (t FieldType) IsNumeric() bool {
	return t == FieldNumber || t == FieldCurrency
}

// Field describes one reportable column of an entity
type Field struct {
	Key          string    `json:"key"`
	Label        string    `json:"label"`
	Type         FieldType `json:"type"`
	Column       string    `json:"-"`
	Filterable   bool      `json:"filterable"`
	Sortable     bool      `json:"sortable"`
	Groupable    bool      `json:"groupable"`
	Aggregatable bool      `json:"aggregatable"`
	Options      []string  `json:"options,omitempty"`
}

// HasOption checks an enum value
func (f *Field) HasOption(v string) bool {
	for _, o := range f.Options {
		if o == v {
			return true
		}
	}
	return false
}

// Entity is a reportable record type backed by a fixed FROM clause
type Entity struct {
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	Description  string  `json:"description,omitempty"`
	From         string  `json:"-"`
	BranchColumn string  `json:"-"`
	DefaultSort  string  `json:"default_sort"`
	Fields       []Field `json:"fields,omitempty"`

	index map[string]*Field
}

// Field looks up a field by key
func (e *Entity) Field(key string) (*Field, bool) {
	f, ok := e.index[key]
	return f, ok
}

// FieldKeys returns the keys in declaration order
func (e *Entity) FieldKeys() []string {
	keys := make([]string, len(e.Fields))
	for i := range e.Fields {
		keys[i] = e.Fields[i].Key
	}
	return keys
}

var titleCaser = cases.Title(language.English)

// LabelFromKey turns snake_case keys into title-cased labels
func LabelFromKey(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// field builders keep the registry table readable

func text(key, column string) Field {
	return Field{Key: key, Type: FieldString, Column: column, Filterable: true, Sortable: true, Groupable: true}
}

func money(key, column string) Field {
	return Field{Key: key, Type: FieldCurrency, Column: column, Filterable: true, Sortable: true, Aggregatable: true}
}

func number(key, column string) Field {
	return Field{Key: key, Type: FieldNumber, Column: column, Filterable: true, Sortable: true, Aggregatable: true}
}

func date(key, column string) Field {
	return Field{Key: key, Type: FieldDate, Column: column, Filterable: true, Sortable: true, Groupable: true}
}

func enum(key, column string, options ...string) Field {
	return Field{Key: key, Type: FieldEnum, Column: column, Filterable: true, Sortable: true, Groupable: true, Options: options}
}

func boolean(key, column string) Field {
	return Field{Key: key, Type: FieldBoolean, Column: column, Filterable: true, Groupable: true}
}

func (f Field) label(l string) Field {
	f.Label = l
	return f
}
