package workflow

import "context"

// FromSlice returns a Stream yielding records in order.
func FromSlice(records []Record) Stream {
	return func(yield func(Record, error) bool) {
		for _, r := range records {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// Fail returns a Stream whose only element is err.
func Fail(err error) Stream {
	return func(yield func(Record, error) bool) {
		yield(nil, err)
	}
}

// Map applies fn to every record of in. An error from fn ends the stream.
func Map(in Stream, fn func(Record) (Record, error)) Stream {
	return func(yield func(Record, error) bool) {
		for r, err := range in {
			if err != nil {
				yield(nil, err)
				return
			}
			out, err := fn(r)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(out, nil) {
				return
			}
		}
	}
}

// Filter keeps the records of in for which keep returns true.
func Filter(in Stream, keep func(Record) bool) Stream {
	return func(yield func(Record, error) bool) {
		for r, err := range in {
			if err != nil {
				yield(nil, err)
				return
			}
			if keep(r) && !yield(r, nil) {
				return
			}
		}
	}
}

// Collect drains in into a slice, stopping at the first error.
func Collect(in Stream) ([]Record, error) {
	var out []Record
	for r, err := range in {
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}

type identity struct{}

func (identity) Apply(_ context.Context, in Stream) Stream { return in }
func (identity) Close() error                             { return nil }

// Identity is a ProcessorFactory whose processor passes records through unchanged.
func Identity(context.Context) (Processor, error) {
	return identity{}, nil
}
