package service

import (
	"time"

	"events-api/internal/model"
	"events-api/internal/validation"
	apperrors "events-api/pkg/app_errors"
)

// ValidatePatch checks every field present in the patch and turns it into a
// mutation without UpdatedAt. Fields absent from the patch are never read.
func ValidatePatch(patch model.EventPatch) (model.EventMutation, error) {
	if patch.IsEmpty() {
		return model.EventMutation{}, apperrors.ErrNoFieldsToUpdate
	}

	var (
		verr apperrors.ValidationError
		m    model.EventMutation
	)

	if patch.Title.Present {
		v, fe := validation.Text(model.FieldTitle, patch.Title, validation.MaxTitleLength)
		verr.Add(fe)
		m.Title = &v
	}
	if patch.Description.Present {
		v, fe := validation.Text(model.FieldDescription, patch.Description, validation.MaxDescriptionLength)
		verr.Add(fe)
		m.Description = &v
	}
	if patch.Date.Present {
		v, fe := validation.Date(model.FieldDate, patch.Date)
		verr.Add(fe)
		m.Date = &v
	}
	if patch.Location.Present {
		v, fe := validation.Text(model.FieldLocation, patch.Location, validation.MaxLocationLength)
		verr.Add(fe)
		m.Location = &v
	}
	if patch.Capacity.Present {
		v, fe := validation.Capacity(model.FieldCapacity, patch.Capacity)
		verr.Add(fe)
		m.Capacity = &v
	}
	if patch.Organizer.Present {
		v, fe := validation.Text(model.FieldOrganizer, patch.Organizer, validation.MaxOrganizerLength)
		verr.Add(fe)
		m.Organizer = &v
	}
	if patch.Status.Present {
		v, fe := validation.Status(model.FieldStatus, patch.Status)
		verr.Add(fe)
		m.Status = &v
	}

	if err := verr.ErrOrNil(); err != nil {
		return model.EventMutation{}, err
	}
	return m, nil
}

// Stamp sets UpdatedAt to now, nudged one microsecond past the stored value
// when the clock has not moved, so consecutive updates always advance it.
func Stamp(existing *model.Event, m model.EventMutation, now time.Time) model.EventMutation {
	m.UpdatedAt = now
	if !now.After(existing.UpdatedAt) {
		m.UpdatedAt = existing.UpdatedAt.Add(time.Microsecond)
	}
	return m
}
