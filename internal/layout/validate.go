package layout

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrCorrupt matches every *CorruptError.
var ErrCorrupt = errors.New("corrupt layout document")

// CorruptError reports a document that cannot be turned into a valid graph.
// Edge is the offending edge index, or -1.
type CorruptError struct {
	Edge   int
	Reason string
}

func (e *CorruptError) Error() string {
	if e.Edge >= 0 {
		return fmt.Sprintf("%v: edge %d: %s", ErrCorrupt, e.Edge, e.Reason)
	}
	return fmt.Sprintf("%v: %s", ErrCorrupt, e.Reason)
}

func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks doc before it is applied: every node needs a file, no
// two nodes may resolve to the same path under base, and every edge must
// reference two distinct in-range nodes without repeating a directed pair.
func Validate(doc *Document, base string) error {
	if doc == nil {
		return &CorruptError{Edge: -1, Reason: "empty document"}
	}
	if err := validate.Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &CorruptError{Edge: -1, Reason: fmt.Sprintf("%s fails %q", verrs[0].Namespace(), verrs[0].Tag())}
		}
		return &CorruptError{Edge: -1, Reason: err.Error()}
	}

	seen := make(map[string]int, len(doc.Nodes))
	for i, rec := range doc.Nodes {
		path := resolve(base, rec.File)
		if j, dup := seen[path]; dup {
			return &CorruptError{Edge: -1, Reason: fmt.Sprintf("nodes %d and %d both reference %s", j, i, rec.File)}
		}
		seen[path] = i
	}

	type pair struct{ start, end int }
	pairs := make(map[pair]int, len(doc.Edges))
	for i, rec := range doc.Edges {
		for _, idx := range []int{rec.Start, rec.End} {
			if idx >= len(doc.Nodes) {
				return &CorruptError{Edge: i, Reason: fmt.Sprintf("references node %d, document has %d", idx, len(doc.Nodes))}
			}
		}
		if rec.Start == rec.End {
			return &CorruptError{Edge: i, Reason: fmt.Sprintf("self loop on node %d", rec.Start)}
		}
		p := pair{rec.Start, rec.End}
		if j, dup := pairs[p]; dup {
			return &CorruptError{Edge: i, Reason: fmt.Sprintf("repeats edge %d (%d -> %d)", j, rec.Start, rec.End)}
		}
		pairs[p] = i
	}
	return nil
}
