package scoring

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/stellarlinkco/invisiblebench/internal/scorer"
)

// runIsolated executes one bound scorer call inside a protected region.
// On success the returned score is tagged completed; on error or panic
// the failure is downgraded to a structured error score carrying the
// concrete error type name and message. Nothing ever propagates past
// this boundary into the pipeline loop.
func runIsolated(logw io.Writer, name string, fn func() (*scorer.DimensionScore, error)) *scorer.DimensionScore {
	ds, err := func() (ds *scorer.DimensionScore, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &panicError{value: r}
			}
		}()
		return fn()
	}()

	if err == nil && ds == nil {
		err = fmt.Errorf("scorer returned nil score")
	}
	if err != nil {
		if logw != nil {
			fmt.Fprintf(logw, "scoring: dimension %s failed: %v\n", name, err)
		}
		return &scorer.DimensionScore{
			Status: scorer.StatusError,
			Error:  errorDetail(err),
		}
	}

	ds.Status = scorer.StatusCompleted
	ds.Error = ""
	return ds
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// errorDetail renders "<TypeName>: <message>" with the concrete error
// type name verbatim; callers match on the type name.
func errorDetail(err error) string {
	return errorTypeName(err) + ": " + err.Error()
}

func errorTypeName(err error) string {
	if err == nil {
		return ""
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.String()
	return strings.TrimPrefix(name, "*")
}
