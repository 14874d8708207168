package bridge

import (
	"fmt"
	"time"

	"github.com/nexuslang/nexus/internal/evaluator"
)

// objString converts an interpreter value to a plain string for a port.
// Null becomes "" so that absent optional arguments read as unspecified.
func objString(o evaluator.Object) string {
	switch v := o.(type) {
	case *evaluator.String:
		return v.Value
	case *evaluator.Null:
		return ""
	default:
		return o.Inspect()
	}
}

func objFloat(o evaluator.Object, def float64) float64 {
	switch v := o.(type) {
	case *evaluator.Float:
		return v.Value
	case *evaluator.Integer:
		return float64(v.Value)
	default:
		return def
	}
}

// objSeconds reads a numeric timeout in seconds. Null or non-numeric
// values mean no timeout.
func objSeconds(o evaluator.Object) time.Duration {
	switch v := o.(type) {
	case *evaluator.Integer:
		return time.Duration(v.Value) * time.Second
	case *evaluator.Float:
		return time.Duration(v.Value * float64(time.Second))
	default:
		return 0
	}
}

// objFilters unpacks the [name, value] pair array the evaluator builds
// from a knowledge query's named arguments.
func objFilters(o evaluator.Object) (map[string]string, error) {
	arr, ok := o.(*evaluator.Array)
	if !ok {
		return nil, fmt.Errorf("filters must be an array, got %s", o.Type())
	}
	filters := make(map[string]string, len(arr.Elements))
	for _, el := range arr.Elements {
		pair, ok := el.(*evaluator.Array)
		if !ok || len(pair.Elements) != 2 {
			return nil, fmt.Errorf("malformed filter entry %s", el.Inspect())
		}
		filters[objString(pair.Elements[0])] = objString(pair.Elements[1])
	}
	return filters, nil
}
