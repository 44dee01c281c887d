package gpu

import "fmt"

// ResourceError wraps a failed graphics API call with the resource it was
// creating.
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("gpu: failed to create %s: %v", e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

func resourceErr(resource string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Resource: resource, Err: err}
}
