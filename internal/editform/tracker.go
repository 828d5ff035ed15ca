package editform

import (
	"errors"
	"fmt"
)

var (
	// ErrNoChanges reports a save request with an empty modified set.
	ErrNoChanges = errors.New("no changes to save")

	// ErrConfirmPending reports an operation attempted while a critical
	// field change is still awaiting Acknowledge or Revert.
	ErrConfirmPending = errors.New("critical change awaiting confirmation")

	// ErrNoPending reports Acknowledge/Revert without a pending change.
	ErrNoPending = errors.New("no pending critical change")

	// ErrUnknownField reports a field name outside the configured set.
	ErrUnknownField = errors.New("unknown field")
)

// Config declares the shape of the editable record: the ordered field
// list, the per-field validation rules, and the critical subset whose
// first modification needs an explicit acknowledgement.
type Config struct {
	Fields   []string
	Rules    map[string]Rule
	Critical []string
}

func (c Config) isCritical(field string) bool {
	for _, f := range c.Critical {
		if f == field {
			return true
		}
	}
	return false
}

func (c Config) hasField(field string) bool {
	for _, f := range c.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// PendingChange is a suspended update to a critical field: the value has
// not been applied to the working copy yet.
type PendingChange struct {
	Field    string
	Original string
	Value    string
}

// Diff is one staged change in a save request.
type Diff struct {
	Field string
	Old   string
	New   string
}

// Tracker owns a working copy of one record and the divergence bookkeeping
// against the baseline captured at Load. It is single-editor state; it is
// not safe for concurrent use.
type Tracker struct {
	cfg      Config
	original map[string]string
	working  map[string]string
	modified map[string]bool
	pending  *PendingChange
}

func NewTracker(cfg Config) *Tracker {
	return &Tracker{
		cfg:      cfg,
		original: make(map[string]string),
		working:  make(map[string]string),
		modified: make(map[string]bool),
	}
}

// Load captures record as the immutable baseline and resets the working
// copy to it. Fields missing from record start empty.
func (t *Tracker) Load(record map[string]string) {
	t.original = make(map[string]string, len(t.cfg.Fields))
	t.working = make(map[string]string, len(t.cfg.Fields))
	for _, f := range t.cfg.Fields {
		t.original[f] = record[f]
		t.working[f] = record[f]
	}
	t.modified = make(map[string]bool)
	t.pending = nil
}

// Get returns the working value of field.
func (t *Tracker) Get(field string) (string, bool) {
	v, ok := t.working[field]
	return v, ok
}

// Original returns the baseline value of field.
func (t *Tracker) Original(field string) (string, bool) {
	v, ok := t.original[field]
	return v, ok
}

// IsModified reports whether field currently diverges from the baseline.
func (t *Tracker) IsModified(field string) bool {
	return t.modified[field]
}

// Modified returns the diverging field names in declaration order.
func (t *Tracker) Modified() []string {
	result := make([]string, 0, len(t.modified))
	for _, f := range t.cfg.Fields {
		if t.modified[f] {
			result = append(result, f)
		}
	}
	return result
}

// Pending returns the suspended critical change, if any.
func (t *Tracker) Pending() *PendingChange {
	return t.pending
}

// Set applies value to field. The first change to a critical field that
// actually diverges from the baseline is suspended instead of applied: the
// returned PendingChange must be resolved with Acknowledge or Revert
// before anything else moves. Non-critical fields, and critical fields
// already in the modified set, apply immediately; the modified set is kept
// in step by comparing against the baseline.
func (t *Tracker) Set(field, value string) (*PendingChange, error) {
	if !t.cfg.hasField(field) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if t.pending != nil {
		return nil, ErrConfirmPending
	}

	original := t.original[field]

	if t.cfg.isCritical(field) && !t.modified[field] && value != original {
		t.pending = &PendingChange{Field: field, Original: original, Value: value}
		return t.pending, nil
	}

	t.apply(field, value)
	return nil, nil
}

func (t *Tracker) apply(field, value string) {
	t.working[field] = value
	if value != t.original[field] {
		t.modified[field] = true
	} else {
		delete(t.modified, field)
	}
}

// Acknowledge commits the pending critical change and folds the field into
// normal tracking.
func (t *Tracker) Acknowledge() error {
	if t.pending == nil {
		return ErrNoPending
	}
	t.apply(t.pending.Field, t.pending.Value)
	t.pending = nil
	return nil
}

// Revert drops the pending critical change, leaving the working copy at
// the baseline value.
func (t *Tracker) Revert() error {
	if t.pending == nil {
		return ErrNoPending
	}
	t.working[t.pending.Field] = t.pending.Original
	delete(t.modified, t.pending.Field)
	t.pending = nil
	return nil
}

// ValidateField checks field against its rule. Validation is independent
// of the modified set. Fields without a rule always pass.
func (t *Tracker) ValidateField(field string) error {
	if !t.cfg.hasField(field) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	rule, ok := t.cfg.Rules[field]
	if !ok {
		return nil
	}
	if fe := rule.check(field, t.working[field], func(f string) string { return t.working[f] }); fe != nil {
		return fe
	}
	return nil
}

// ValidateAll runs ValidateField over every field in declaration order and
// collects the failures.
func (t *Tracker) ValidateAll() error {
	var errs ValidationErrors
	for _, f := range t.cfg.Fields {
		if err := t.ValidateField(f); err != nil {
			var fe *FieldError
			if errors.As(err, &fe) {
				errs = append(errs, fe)
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RequestSave stages the save: it reports ErrNoChanges on an empty
// modified set, aborts with the collected ValidationErrors if any field is
// invalid, and otherwise returns the ordered diff for confirmation.
func (t *Tracker) RequestSave() ([]Diff, error) {
	if t.pending != nil {
		return nil, ErrConfirmPending
	}
	if len(t.modified) == 0 {
		return nil, ErrNoChanges
	}
	if err := t.ValidateAll(); err != nil {
		return nil, err
	}

	diffs := make([]Diff, 0, len(t.modified))
	for _, f := range t.cfg.Fields {
		if t.modified[f] {
			diffs = append(diffs, Diff{Field: f, Old: t.original[f], New: t.working[f]})
		}
	}
	return diffs, nil
}

// ConfirmSave promotes the working copy to the new baseline and clears the
// modified set. Persisting the record anywhere durable is the caller's
// concern.
func (t *Tracker) ConfirmSave() {
	for _, f := range t.cfg.Fields {
		t.original[f] = t.working[f]
	}
	t.modified = make(map[string]bool)
	t.pending = nil
}

// Cancel requests discarding the working copy. With no changes it resets
// immediately and returns false; with changes it returns true and waits
// for ConfirmCancel.
func (t *Tracker) Cancel() bool {
	if len(t.modified) == 0 && t.pending == nil {
		t.reset()
		return false
	}
	return true
}

// ConfirmCancel discards the working copy and restores the baseline.
func (t *Tracker) ConfirmCancel() {
	t.reset()
}

func (t *Tracker) reset() {
	for _, f := range t.cfg.Fields {
		t.working[f] = t.original[f]
	}
	t.modified = make(map[string]bool)
	t.pending = nil
}
