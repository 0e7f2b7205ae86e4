package types

import (
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// Annotations - non-fatal findings attached to a Result
// -----------------------------------------------------------------------------
//
// Anything the engine could not parse, but that does not prevent it from
// reporting the container structure, is recorded here instead of aborting:
//   - unknown or undecoded subtype markers (informational)
//   - declared sizes that disagree with the buffer (warnings)
//   - decoder rejections and depth-guard trips (errors, scoped to one branch)

// Severity classifies how serious an annotation is.
type Severity int

const (
	SevInfo    Severity = iota // Informational (legitimate terminal state)
	SevWarning                 // Inconsistent but parseable
	SevError                   // A branch of the payload could not be decoded
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the severity by name in JSON output.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Category classifies what an annotation is about.
type Category int

const (
	CatUnrecognized Category = iota // subtype marker absent from the table
	CatNoDecoder                    // subtype known, no decoder registered
	CatMalformed                    // decoder rejected its sub-payload
	CatTooDeep                      // nesting guard tripped
	CatSizeMismatch                 // declared size disagrees with the buffer
	CatSignature                    // magic or marker differs from the descriptor
	CatTrailing                     // bytes left after the decoder returned
)

func (c Category) String() string {
	switch c {
	case CatUnrecognized:
		return "UNRECOGNIZED"
	case CatNoDecoder:
		return "NO_DECODER"
	case CatMalformed:
		return "MALFORMED"
	case CatTooDeep:
		return "TOO_DEEP"
	case CatSizeMismatch:
		return "SIZE_MISMATCH"
	case CatSignature:
		return "SIGNATURE"
	case CatTrailing:
		return "TRAILING"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the category by name in JSON output.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Annotation is a single non-fatal finding.
type Annotation struct {
	Severity  Severity `json:"severity"`
	Category  Category `json:"category"`
	Offset    int      `json:"offset"`
	Structure string   `json:"structure"` // field or subtype the finding is about
	Issue     string   `json:"issue"`
	Expected  any      `json:"expected,omitempty"`
	Actual    any      `json:"actual,omitempty"`
	Err       string   `json:"error,omitempty"`
}

func (a Annotation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "0x%08X [%s/%s/%s] %s", a.Offset, a.Severity, a.Structure, a.Category, a.Issue)
	if a.Expected != nil || a.Actual != nil {
		fmt.Fprintf(&b, " (expected %v, got %v)", a.Expected, a.Actual)
	}
	if a.Err != "" {
		fmt.Fprintf(&b, ": %s", a.Err)
	}
	return b.String()
}

// AnnotationSummary provides quick statistics over a Result tree.
type AnnotationSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Summarize counts annotations across r and all nested results.
func (r *Result) Summarize() AnnotationSummary {
	var s AnnotationSummary
	r.eachAnnotation(func(a Annotation) {
		switch a.Severity {
		case SevError:
			s.Errors++
		case SevWarning:
			s.Warnings++
		case SevInfo:
			s.Info++
		}
	})
	return s
}

// AllAnnotations flattens annotations from r and nested results, parents
// before children.
func (r *Result) AllAnnotations() []Annotation {
	var out []Annotation
	r.eachAnnotation(func(a Annotation) { out = append(out, a) })
	return out
}

func (r *Result) eachAnnotation(fn func(Annotation)) {
	if r == nil {
		return
	}
	for _, a := range r.Annotations {
		fn(a)
	}
	for i := range r.Fields {
		r.Fields[i].Child.eachAnnotation(fn)
	}
}
