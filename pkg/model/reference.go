// Package model defines the core data structures used throughout the application.
package model

import (
	"encoding/json"
	"errors"
	"strings"
)

// ConstructorName is the member name profilers use for constructors.
const ConstructorName = "<init>"

// ErrEmptyMemberName is returned when a reference is built without a member name.
var ErrEmptyMemberName = errors.New("code reference requires a member name")

// CodeReference identifies a method-like code fragment.
//
// References are immutable values: all fields are unexported and the struct is
// comparable, so it can be used directly as a map key. Equality covers the
// native flag, the qualified container name and the member name; the short
// name is derived from the qualified name and needs no storage.
type CodeReference struct {
	native        bool
	qualifiedName string
	memberName    string
}

// NewCodeReference builds a managed (non-native) reference.
func NewCodeReference(qualifiedName, memberName string) (CodeReference, error) {
	return NewReferenceBuilder().
		WithQualifiedName(qualifiedName).
		WithMemberName(memberName).
		Build()
}

// MustCodeReference is like NewCodeReference but panics on error.
// Use it only for literals in tests and examples.
func MustCodeReference(qualifiedName, memberName string) CodeReference {
	ref, err := NewCodeReference(qualifiedName, memberName)
	if err != nil {
		panic(err)
	}
	return ref
}

// IsNative reports whether the reference points to native/system code.
func (r CodeReference) IsNative() bool {
	return r.native
}

// QualifiedName returns the dot-separated container path. It may be empty.
func (r CodeReference) QualifiedName() string {
	return r.qualifiedName
}

// ShortName returns the last dot-separated component of the qualified name.
func (r CodeReference) ShortName() string {
	return shortName(r.qualifiedName)
}

// MemberName returns the method or function designator.
func (r CodeReference) MemberName() string {
	return r.memberName
}

// IsConstructor reports whether the member is a constructor.
func (r CodeReference) IsConstructor() bool {
	return r.memberName == ConstructorName
}

// WithShortName returns a copy of the reference whose qualified name is
// replaced by its short name.
func (r CodeReference) WithShortName() CodeReference {
	r.qualifiedName = r.ShortName()
	return r
}

// String returns "qualified.member <java>" or "qualified.member <native>".
func (r CodeReference) String() string {
	var sb strings.Builder
	if r.qualifiedName != "" {
		sb.WriteString(r.qualifiedName)
		sb.WriteByte('.')
	}
	sb.WriteString(r.memberName)
	if r.native {
		sb.WriteString(" <native>")
	} else {
		sb.WriteString(" <java>")
	}
	return sb.String()
}

// referenceJSON is the wire form of a CodeReference.
type referenceJSON struct {
	QualifiedName string `json:"qualified_name" yaml:"qualified_name"`
	ShortName     string `json:"short_name" yaml:"short_name"`
	MemberName    string `json:"member_name" yaml:"member_name"`
	Native        bool   `json:"native" yaml:"native"`
}

func (r CodeReference) wire() referenceJSON {
	return referenceJSON{
		QualifiedName: r.qualifiedName,
		ShortName:     r.ShortName(),
		MemberName:    r.memberName,
		Native:        r.native,
	}
}

// MarshalJSON implements json.Marshaler.
func (r CodeReference) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire())
}

// UnmarshalJSON implements json.Unmarshaler. The member name is validated.
func (r *CodeReference) UnmarshalJSON(data []byte) error {
	var w referenceJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	ref, err := NewReferenceBuilder().
		WithQualifiedName(w.QualifiedName).
		WithMemberName(w.MemberName).
		WithNative(w.Native).
		Build()
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (r CodeReference) MarshalYAML() (interface{}, error) {
	return r.wire(), nil
}

func shortName(qualifiedName string) string {
	if i := strings.LastIndexByte(qualifiedName, '.'); i >= 0 {
		return qualifiedName[i+1:]
	}
	return qualifiedName
}

// ReferenceBuilder builds CodeReference values.
type ReferenceBuilder struct {
	native        bool
	qualifiedName string
	memberName    string
}

// NewReferenceBuilder creates a builder for a managed reference.
func NewReferenceBuilder() *ReferenceBuilder {
	return &ReferenceBuilder{}
}

// WithNative marks the reference as native/system code.
func (b *ReferenceBuilder) WithNative(native bool) *ReferenceBuilder {
	b.native = native
	return b
}

// WithQualifiedName sets the dot-separated container path.
func (b *ReferenceBuilder) WithQualifiedName(name string) *ReferenceBuilder {
	b.qualifiedName = name
	return b
}

// WithMemberName sets the member designator.
func (b *ReferenceBuilder) WithMemberName(name string) *ReferenceBuilder {
	b.memberName = name
	return b
}

// Build validates the collected attributes and returns the reference.
func (b *ReferenceBuilder) Build() (CodeReference, error) {
	if b.memberName == "" {
		return CodeReference{}, ErrEmptyMemberName
	}
	return CodeReference{
		native:        b.native,
		qualifiedName: b.qualifiedName,
		memberName:    b.memberName,
	}, nil
}
