package cli

import (
	"time"

	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/spf13/pflag"
)

// dateValue is a pflag.Value for calendar dates in either accepted layout.
type dateValue struct {
	t   time.Time
	set bool
}

var _ pflag.Value = (*dateValue)(nil)

func (d *dateValue) String() string {
	if !d.set {
		return ""
	}
	return domain.FormatDate(d.t)
}

func (d *dateValue) Set(s string) error {
	t, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	d.t, d.set = t, true
	return nil
}

func (d *dateValue) Type() string { return "date" }

// statusValue restricts a flag to the task lifecycle states.
type statusValue struct {
	s   domain.TaskStatus
	set bool
}

var _ pflag.Value = (*statusValue)(nil)

func (v *statusValue) String() string { return string(v.s) }

func (v *statusValue) Set(s string) error {
	st, err := domain.ParseTaskStatus(s)
	if err != nil {
		return err
	}
	v.s, v.set = st, true
	return nil
}

func (v *statusValue) Type() string { return "status" }

// changedString returns a pointer to the flag's value only when the user
// passed it.
func changedString(fs *pflag.FlagSet, name string, v string) *string {
	if !fs.Changed(name) {
		return nil
	}
	return &v
}

func changedInt(fs *pflag.FlagSet, name string, v int) *int {
	if !fs.Changed(name) {
		return nil
	}
	return &v
}
