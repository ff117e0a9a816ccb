package document

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ValidationSeverity indicates whether a validation finding blocks export
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks export
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	ObjectID ObjectID           // which object has the problem (zero if document-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.ObjectID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] object %s: %s", e.Severity, e.ObjectID.Short(), e.Message)
}

// Validate checks every object of the document and returns its findings.
// An empty slice means the document is clean. Validate never mutates d.
func Validate(d *Document) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateNames(d)...)
	errs = append(errs, validateBounds(d)...)
	return errs
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validateNames warns about names shared by several objects; only the
// newest of them is reachable through Lookup.
func validateNames(d *Document) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]ObjectID)
	for _, obj := range d.Objects() {
		if first, ok := seen[obj.Name]; ok {
			errs = append(errs, ValidationError{
				ObjectID: obj.ID,
				Message:  fmt.Sprintf("name %q already used by object %s", obj.Name, first.Short()),
				Severity: SeverityWarning,
			})
			continue
		}
		seen[obj.Name] = obj.ID
	}
	return errs
}

// validateBounds rejects surfaces with non-finite extents and warns about
// surfaces collapsed to a single point.
func validateBounds(d *Document) []ValidationError {
	var errs []ValidationError
	for _, obj := range d.Objects() {
		min, max := obj.Surface.BoundingBox()
		if !finite(min) || !finite(max) {
			errs = append(errs, ValidationError{
				ObjectID: obj.ID,
				Message:  fmt.Sprintf("bounding box %v..%v is not finite", min, max),
				Severity: SeverityError,
			})
			continue
		}
		if r3.Norm(r3.Sub(max, min)) == 0 {
			errs = append(errs, ValidationError{
				ObjectID: obj.ID,
				Message:  "surface collapses to a single point",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
