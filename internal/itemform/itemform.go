// Package itemform holds the create/edit listing form: prepopulation,
// field validation, and submission.
package itemform

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/krugstergaming/Greenhouse/internal/gateway"
	"github.com/krugstergaming/Greenhouse/pkg/errors"
	"github.com/krugstergaming/Greenhouse/pkg/logger"
	"github.com/krugstergaming/Greenhouse/pkg/types"
)

// Mode selects create or edit behavior. Edits never resubmit images.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// contactPhonePattern: local mobile format, 09 prefix, 11 digits total.
var contactPhonePattern = regexp.MustCompile(`^09\d{9}$`)

// Values is the editable field set. Comments are trimmed before length
// checks; ContactInfo is optional but strict when present.
type Values struct {
	Name         string `validate:"required"`
	Quantity     int    `validate:"min=1"`
	Category     string `validate:"required"`
	Location     string `validate:"required"`
	ExpiryDate   string `validate:"required"`
	DurationDays int    `validate:"min=1"`
	Comments     string `validate:"min=10,max=500"`
	ContactInfo  string `validate:"omitempty,contact_phone"`
	Images       []gateway.ItemImage
}

// Submitter is the slice of the gateway the form needs.
type Submitter interface {
	CreateItem(ctx context.Context, req gateway.ItemCreate) (*types.MessageResult, error)
	UpdateItem(ctx context.Context, itemID string, req gateway.ItemUpdate) error
}

// Refs are the reference collections category and location must come
// from.
type Refs struct {
	Categories []string
	Locations  []string
}

// Form is one open form instance. Open flips false only on a
// successful submit.
type Form struct {
	Mode   Mode
	ItemID string
	Values Values
	Open   bool

	refs     Refs
	submit   Submitter
	log      *logger.Logger
	validate *validator.Validate
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("contact_phone", func(fl validator.FieldLevel) bool {
		return contactPhonePattern.MatchString(fl.Field().String())
	})
	return v
}

// NewCreate opens an empty create form with the usual defaults.
func NewCreate(submit Submitter, refs Refs, logg *logger.Logger) (*Form, error) {
	if submit == nil {
		return nil, fmt.Errorf("itemform: submitter is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("itemform: logger is required")
	}
	return &Form{
		Mode:     ModeCreate,
		Values:   Values{Quantity: 1, DurationDays: 7},
		Open:     true,
		refs:     refs,
		submit:   submit,
		log:      logg,
		validate: newValidator(),
	}, nil
}

// NewEdit opens an edit form prepopulated from the item. Images are
// deliberately left empty; edits never touch them.
func NewEdit(submit Submitter, item types.Item, refs Refs, logg *logger.Logger) (*Form, error) {
	form, err := NewCreate(submit, refs, logg)
	if err != nil {
		return nil, err
	}
	form.Mode = ModeEdit
	form.ItemID = item.ItemID
	form.Values = Values{
		Name:         item.Name,
		Quantity:     item.Quantity,
		Category:     item.Category,
		Location:     item.Location,
		ExpiryDate:   item.ExpiryDate,
		DurationDays: item.DurationDays,
		Comments:     item.Comments,
		ContactInfo:  item.ContactInfo,
	}
	return form, nil
}

// Validate returns per-field messages. An empty map means the values
// are submittable.
func (f *Form) Validate() map[string]string {
	fieldErrs := map[string]string{}

	normalized := f.Values
	normalized.Comments = strings.TrimSpace(normalized.Comments)

	if err := f.validate.Struct(normalized); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) {
			for _, fe := range verrs {
				fieldErrs[fe.Field()] = fieldMessage(fe)
			}
		} else {
			fieldErrs["form"] = "invalid form values"
		}
	}

	if normalized.Category != "" && !contains(f.refs.Categories, normalized.Category) {
		fieldErrs["Category"] = "choose a category from the list"
	}
	if normalized.Location != "" && !contains(f.refs.Locations, normalized.Location) {
		fieldErrs["Location"] = "choose a pickup location from the list"
	}
	if f.Mode == ModeCreate && len(f.Values.Images) == 0 {
		fieldErrs["Images"] = "add at least one photo"
	}
	return fieldErrs
}

// Submit validates and, when clean, sends the create or update call.
// Validation failures block the network call entirely. On success the
// form closes; on a backend failure it stays open.
func (f *Form) Submit(ctx context.Context) (map[string]string, error) {
	if fieldErrs := f.Validate(); len(fieldErrs) > 0 {
		return fieldErrs, errors.New(errors.CodeValidation, "fix the highlighted fields").WithDetails(fieldErrs)
	}

	values := f.Values
	values.Comments = strings.TrimSpace(values.Comments)

	var err error
	switch f.Mode {
	case ModeEdit:
		err = f.submit.UpdateItem(ctx, f.ItemID, gateway.ItemUpdate{
			Name:         values.Name,
			Quantity:     values.Quantity,
			Category:     values.Category,
			Location:     values.Location,
			ExpiryDate:   values.ExpiryDate,
			DurationDays: values.DurationDays,
			Comments:     values.Comments,
			ContactInfo:  values.ContactInfo,
		})
	default:
		_, err = f.submit.CreateItem(ctx, gateway.ItemCreate{
			Name:         values.Name,
			Quantity:     values.Quantity,
			Category:     values.Category,
			Location:     values.Location,
			ExpiryDate:   values.ExpiryDate,
			DurationDays: values.DurationDays,
			Comments:     values.Comments,
			ContactInfo:  values.ContactInfo,
			Images:       values.Images,
		})
	}
	if err != nil {
		f.log.Error(ctx, "submitting item form", err)
		return nil, err
	}

	f.Open = false
	return nil, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		return "item name is required"
	case "Quantity":
		return "quantity must be at least 1"
	case "Category":
		return "category is required"
	case "Location":
		return "pickup location is required"
	case "ExpiryDate":
		return "expiry date is required"
	case "DurationDays":
		return "duration must be at least 1 day"
	case "Comments":
		if fe.Tag() == "max" {
			return "description must be at most 500 characters"
		}
		return "description must be at least 10 characters"
	case "ContactInfo":
		return "contact number must start with 09 and be 11 digits"
	}
	return "invalid value"
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
