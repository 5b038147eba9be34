package view

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Ref points to one document.
type Ref struct {
	segments []string
	err      error
}

// CollectionRef points to a collection of documents.
type CollectionRef struct {
	segments []string
	err      error
}

// Doc builds a document reference from collection/document pairs.
func Doc(segments ...string) Ref {
	if len(segments) == 0 || len(segments)%2 != 0 {
		return Ref{err: errs.NewValueIsInvalidErrorWithCause("document path",
			fmt.Errorf("%q needs collection/document pairs", strings.Join(segments, "/")))}
	}
	if err := checkSegments(segments); err != nil {
		return Ref{err: err}
	}
	return Ref{segments: append([]string(nil), segments...)}
}

// Collection builds a collection reference; it needs an odd number of segments.
func Collection(segments ...string) CollectionRef {
	if len(segments)%2 != 1 {
		return CollectionRef{err: errs.NewValueIsInvalidErrorWithCause("collection path",
			fmt.Errorf("%q does not end with a collection", strings.Join(segments, "/")))}
	}
	if err := checkSegments(segments); err != nil {
		return CollectionRef{err: err}
	}
	return CollectionRef{segments: append([]string(nil), segments...)}
}

// ParseRef parses a slash separated document path.
func ParseRef(path string) Ref {
	return Doc(strings.Split(strings.Trim(path, "/"), "/")...)
}

// Validate returns the error recorded while building the reference.
func (r Ref) Validate() error {
	if r.err != nil {
		return r.err
	}
	if len(r.segments) == 0 {
		return errs.NewValueIsRequiredError("document path")
	}
	return nil
}

func (r Ref) Path() string {
	return strings.Join(r.segments, "/")
}

func (r Ref) String() string {
	return r.Path()
}

// ID is the last segment.
func (r Ref) ID() string {
	if len(r.segments) == 0 {
		return ""
	}
	return r.segments[len(r.segments)-1]
}

// Segments returns a copy of the path segments.
func (r Ref) Segments() []string {
	return append([]string(nil), r.segments...)
}

// Child returns the document id inside the sub-collection collection.
func (r Ref) Child(collection string, id string) Ref {
	if r.err != nil {
		return r
	}
	return Doc(append(r.Segments(), collection, id)...)
}

// Collection returns a sub-collection of the document.
func (r Ref) Collection(name string) CollectionRef {
	if r.err != nil {
		return CollectionRef{err: r.err}
	}
	return Collection(append(r.Segments(), name)...)
}

// Parent returns the collection holding the document.
func (r Ref) Parent() CollectionRef {
	if r.err != nil || len(r.segments) < 2 {
		return CollectionRef{err: r.Validate()}
	}
	return Collection(r.segments[:len(r.segments)-1]...)
}

// IsAncestorOf reports whether other lives below r.
func (r Ref) IsAncestorOf(other Ref) bool {
	if len(other.segments) <= len(r.segments) {
		return false
	}
	for i, s := range r.segments {
		if other.segments[i] != s {
			return false
		}
	}
	return true
}

func (c CollectionRef) Validate() error {
	if c.err != nil {
		return c.err
	}
	if len(c.segments) == 0 {
		return errs.NewValueIsRequiredError("collection path")
	}
	return nil
}

func (c CollectionRef) Path() string {
	return strings.Join(c.segments, "/")
}

func (c CollectionRef) String() string {
	return c.Path()
}

// ID is the collection name.
func (c CollectionRef) ID() string {
	if len(c.segments) == 0 {
		return ""
	}
	return c.segments[len(c.segments)-1]
}

// Doc returns the document id inside the collection.
func (c CollectionRef) Doc(id string) Ref {
	if c.err != nil {
		return Ref{err: c.err}
	}
	return Doc(append(append([]string(nil), c.segments...), id)...)
}

func checkSegments(segments []string) error {
	for _, s := range segments {
		if strings.TrimSpace(s) == "" {
			return errs.NewValueIsRequiredError("path segment")
		}
		if strings.Contains(s, "/") {
			return errs.NewValueIsInvalidErrorWithCause("path segment", fmt.Errorf("%q contains a slash", s))
		}
	}
	return nil
}
