// Package entities defines the documentation records produced by the upstream
// extraction step: source files and classes with their sections, constants,
// attributes and methods.
//
// Entities are read-only snapshots. The only computed field is OutputPath,
// which internal/index fills in while building the lookup maps.
package entities

import (
	"fmt"
	"path"
	"strings"
)

// Feed is the top-level document of an extraction feed.
type Feed struct {
	Files   []File  `yaml:"files" json:"files"`
	Classes []Class `yaml:"classes" json:"classes"`
}

// File is a documented source file, identified by its path.
type File struct {
	Path        string   `yaml:"path" json:"path"`
	Title       string   `yaml:"title,omitempty" json:"title,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Requires    []string `yaml:"requires,omitempty" json:"requires,omitempty"`

	OutputPath string `yaml:"-" json:"output_path,omitempty"`
}

// DisplayTitle returns the title, falling back to the base name of the path.
func (f *File) DisplayTitle() string {
	if f.Title != "" {
		return f.Title
	}
	return path.Base(f.Path)
}

// Kind values for Class.Kind.
const (
	KindClass  = "class"
	KindModule = "module"
)

// Class is a documented class or module, identified by its fully qualified name.
type Class struct {
	Name        string    `yaml:"name" json:"name"`
	Kind        string    `yaml:"kind,omitempty" json:"kind,omitempty"`
	Superclass  string    `yaml:"superclass,omitempty" json:"superclass,omitempty"`
	File        string    `yaml:"file,omitempty" json:"file,omitempty"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Includes    []string  `yaml:"includes,omitempty" json:"includes,omitempty"`
	Sections    []Section `yaml:"sections,omitempty" json:"sections,omitempty"`

	OutputPath string `yaml:"-" json:"output_path,omitempty"`
}

// IsModule reports whether the entity is a module rather than a class.
func (c *Class) IsModule() bool {
	return c.Kind == KindModule
}

// KindLabel is the kind as shown on pages, defaulting to "class".
func (c *Class) KindLabel() string {
	if c.Kind == "" {
		return KindClass
	}
	return c.Kind
}

// ShortName is the last namespace segment of the name.
func (c *Class) ShortName(sep string) string {
	if i := strings.LastIndex(c.Name, sep); i >= 0 && sep != "" {
		return c.Name[i+len(sep):]
	}
	return c.Name
}

// Namespace is the top-level namespace segment of the name.
func (c *Class) Namespace(sep string) string {
	if sep == "" {
		return c.Name
	}
	ns, _, _ := strings.Cut(c.Name, sep)
	return ns
}

// Methods returns the methods of every section in declaration order.
func (c *Class) Methods() []Method {
	var out []Method
	for _, s := range c.Sections {
		out = append(out, s.Methods...)
	}
	return out
}

// Section groups related members of a class.
type Section struct {
	Title       string      `yaml:"title,omitempty" json:"title,omitempty"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Constants   []Constant  `yaml:"constants,omitempty" json:"constants,omitempty"`
	Attributes  []Attribute `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Methods     []Method    `yaml:"methods,omitempty" json:"methods,omitempty"`
}

type Constant struct {
	Name        string `yaml:"name" json:"name"`
	Value       string `yaml:"value,omitempty" json:"value,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type Attribute struct {
	Name        string `yaml:"name" json:"name"`
	RW          string `yaml:"rw,omitempty" json:"rw,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Visibility values for Method.Visibility.
const (
	VisibilityPublic    = "public"
	VisibilityProtected = "protected"
	VisibilityPrivate   = "private"
)

// Method is a documented method. Source, when present, is the raw listing whose
// first line may end in ", line N".
type Method struct {
	Name        string `yaml:"name" json:"name"`
	Visibility  string `yaml:"visibility,omitempty" json:"visibility,omitempty"`
	Singleton   bool   `yaml:"singleton,omitempty" json:"singleton,omitempty"`
	Params      string `yaml:"params,omitempty" json:"params,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Source      string `yaml:"source,omitempty" json:"source,omitempty"`
}

// IsPrivate reports whether the method is private.
func (m *Method) IsPrivate() bool {
	return m.Visibility == VisibilityPrivate
}

// Anchor is the in-page fragment id for the method.
func (m *Method) Anchor() string {
	prefix := "method-i-"
	if m.Singleton {
		prefix = "method-c-"
	}
	var b strings.Builder
	b.WriteString(prefix)
	for _, r := range m.Name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			fmt.Fprintf(&b, "-%X", r)
		}
	}
	return b.String()
}
