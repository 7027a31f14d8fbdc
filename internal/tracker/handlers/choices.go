package handlers

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gartstein/employee-tracker/internal/pkg/utils"
	e "github.com/gartstein/employee-tracker/internal/tracker/errors"
	"github.com/gartstein/employee-tracker/internal/tracker/models"
)

// option is one entry of a selection list. A nil id stands for "none".
type option struct {
	label string
	id    *uint
}

func labels(options []option) []string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.label
	}
	return out
}

// choose asks the operator to pick one of options.
func (h *Handlers) choose(label string, options []option) (option, error) {
	idx, err := h.prompt.Select(label, labels(options))
	if err != nil {
		return option{}, err
	}
	if idx < 0 || idx >= len(options) {
		return option{}, fmt.Errorf("%w: selection %d out of range", e.ErrInvalidInput, idx)
	}
	return options[idx], nil
}

func departmentOptions(departments []models.Department) []option {
	out := make([]option, 0, len(departments))
	for _, d := range departments {
		out = append(out, option{label: d.Name, id: utils.Ptr(d.ID)})
	}
	return out
}

func roleOptions(roles []models.RoleView) []option {
	out := make([]option, 0, len(roles))
	for _, r := range roles {
		out = append(out, option{label: fmt.Sprintf("%s (%s)", r.Title, r.DepartmentName), id: utils.Ptr(r.ID)})
	}
	return out
}

func employeeOptions(employees []models.EmployeeView) []option {
	out := make([]option, 0, len(employees))
	for _, emp := range employees {
		out = append(out, option{label: fmt.Sprintf("%s (%s)", emp.FullName(), emp.RoleTitle), id: utils.Ptr(emp.ID)})
	}
	return out
}

func managerOptions(managers []models.ManagerView) []option {
	out := make([]option, 0, len(managers))
	for _, m := range managers {
		out = append(out, option{label: m.FullName(), id: utils.Ptr(m.ID)})
	}
	return out
}

// without drops the options whose id is in ids.
func without(options []option, ids ...uint) []option {
	out := make([]option, 0, len(options))
	for _, o := range options {
		skip := false
		for _, id := range ids {
			if o.id != nil && *o.id == id {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, o)
		}
	}
	return out
}

func requireText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// maxSalary is the largest amount the decimal(12,2) salary column holds.
const maxSalary = 9999999999.99

// parseSalary accepts plain or formatted amounts such as "$90,000.50".
func parseSalary(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	salary, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, errors.New("salary must be a number")
	}
	if math.IsInf(salary, 0) || math.IsNaN(salary) {
		return 0, errors.New("salary must be a number")
	}
	if salary < 0 {
		return 0, errors.New("salary cannot be negative")
	}
	if salary > maxSalary {
		return 0, fmt.Errorf("salary cannot exceed %.2f", maxSalary)
	}
	return salary, nil
}

func validateSalary(s string) error {
	_, err := parseSalary(s)
	return err
}

// describe turns an error into the message shown to the operator.
func describe(err error) string {
	switch {
	case errors.Is(err, e.ErrDuplicateName):
		return "A record with that name already exists."
	case errors.Is(err, e.ErrNotFound):
		return "The selected record no longer exists."
	case errors.Is(err, e.ErrInvalidInput), errors.Is(err, e.ErrHasDependents):
		return err.Error()
	default:
		return "Database error: " + err.Error()
	}
}
