package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tesina/core"
)

// Sede is a cohort/campus a course is taught at.
type Sede struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type Course struct {
	ID          int       `json:"id"`
	SedeID      int       `json:"sede_id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	SedeID      int    `json:"sede_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required,alphanum_"`
	Description string `json:"description"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code, true /* lower */)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	SedeID      int    `json:"sede_id"`
	Name        string `json:"name"`
	Code        string `json:"code" validate:"omitempty,alphanum_"`
	Description string `json:"description"`
}

func (uc *UpdateCourse) Validate(origCourse Course, validate *validator.Validate) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = origCourse.Name
	}
	if code := core.CleanString(uc.Code, true /* lower */); code != "" {
		uc.Code = code
	} else {
		uc.Code = origCourse.Code
	}
	if desc := core.CleanString(uc.Description); desc != "" {
		uc.Description = desc
	}
	if uc.SedeID == 0 {
		uc.SedeID = origCourse.SedeID
	}
	return validate.Struct(uc)
}

// NewSede contains information needed to create a new Sede.
type NewSede struct {
	Name string `json:"name" validate:"required"`
	City string `json:"city" validate:"required"`
}

func (ns *NewSede) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.City = core.CleanString(ns.City)
	return validate.Struct(ns)
}

type QueryFilter struct {
	SedeID int    `query:"sede_id"`
	Search string `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
