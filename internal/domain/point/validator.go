package point

import (
	"fmt"
	"strings"
)

// Step numbers the wizard pages. The address step only exists for drafts
// without explicit coordinates.
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepAddress
	StepHours
)

func (s Step) String() string {
	switch s {
	case StepBasicInfo:
		return "basic-info"
	case StepAddress:
		return "address"
	case StepHours:
		return "operating-hours"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Validator checks a draft one wizard step at a time.
type Validator interface {
	ValidateStep(d *Draft, step Step) error
}

type DraftValidator struct{}

func NewDraftValidator() *DraftValidator {
	return &DraftValidator{}
}

// ValidateStep returns FieldErrors describing every problem on the given
// step, or nil when the step is complete.
func (v *DraftValidator) ValidateStep(d *Draft, step Step) error {
	errs := FieldErrors{}

	switch step {
	case StepBasicInfo:
		name := strings.TrimSpace(d.Name)
		if name == "" {
			errs["name"] = "name is required"
		} else if len([]rune(name)) > MaxNameLen {
			errs["name"] = fmt.Sprintf("name must be at most %d characters", MaxNameLen)
		}
		if len([]rune(d.Description)) > MaxDescriptionLen {
			errs["description"] = fmt.Sprintf("description must be at most %d characters", MaxDescriptionLen)
		}
		if len(d.Types) == 0 {
			errs["types"] = "select at least one collection type"
		}
		if len(d.Images) == 0 {
			errs["images"] = "add at least one photo"
		}

	case StepAddress:
		if d.HasCoordinates() {
			// Skipped step, nothing to check
			return nil
		}
		if strings.TrimSpace(d.Address.Street) == "" {
			errs["street"] = "street is required"
		}
		if strings.TrimSpace(d.Address.Number) == "" {
			errs["number"] = "number is required"
		}
		if strings.TrimSpace(d.Address.Postcode) == "" {
			errs["postcode"] = "postcode is required"
		}
		if strings.TrimSpace(d.Address.Neighborhood) == "" {
			errs["neighborhood"] = "neighborhood is required"
		}

	case StepHours:
		if err := d.Hours.Validate(); err != nil {
			errs["operating_hours"] = err.Error()
		}

	default:
		return fmt.Errorf("unknown wizard step %d", step)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
