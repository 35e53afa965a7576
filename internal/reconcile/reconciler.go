package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultTargetM3 is the daily volume target applied to imported rows that
// carry no usable target.
const DefaultTargetM3 = 1050

// DuplicatePolicy decides what a bulk operational import does with rows that
// share a date.
type DuplicatePolicy string

const (
	// DuplicatesForward hands every row to the store, which decides.
	DuplicatesForward DuplicatePolicy = "forward"
	// DuplicatesReject fails the batch on the first repeated date.
	DuplicatesReject DuplicatePolicy = "reject"
	// DuplicatesKeepLast keeps the position of the first row and the values of the last one.
	DuplicatesKeepLast DuplicatePolicy = "keep-last"
)

// ParseDuplicatePolicy maps a configuration value to a policy.
func ParseDuplicatePolicy(value string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(value))); p {
	case "":
		return DuplicatesForward, nil
	case DuplicatesForward, DuplicatesReject, DuplicatesKeepLast:
		return p, nil
	default:
		return "", fmt.Errorf("unknown duplicate date policy %q", value)
	}
}

// Options configures a Reconciler.
type Options struct {
	DefaultTargetM3 float64
	Duplicates      DuplicatePolicy
	// Location is used to resolve "today" for defaulted join dates.
	Location *time.Location
	Now      func() time.Time
}

// Reconciler turns raw rows into complete records ready for the store. It
// holds configuration only and is safe for concurrent use.
type Reconciler struct {
	defaultTarget float64
	duplicates    DuplicatePolicy
	location      *time.Location
	now           func() time.Time
	validate      *validator.Validate
}

// New builds a Reconciler, filling unset options with defaults.
func New(opts Options) *Reconciler {
	r := &Reconciler{
		defaultTarget: opts.DefaultTargetM3,
		duplicates:    opts.Duplicates,
		location:      opts.Location,
		now:           opts.Now,
		validate:      validator.New(),
	}
	if r.defaultTarget <= 0 {
		r.defaultTarget = DefaultTargetM3
	}
	if r.duplicates == "" {
		r.duplicates = DuplicatesForward
	}
	if r.location == nil {
		r.location = time.UTC
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// DefaultTarget returns the target applied to imported rows without one.
func (r *Reconciler) DefaultTarget() float64 {
	return r.defaultTarget
}

func (r *Reconciler) today() string {
	return r.now().In(r.location).Format(dateLayout)
}

// rowNumber is the spreadsheet line of the i-th data row; the header is line 1.
func rowNumber(i int) int {
	return i + 2
}
