package validators

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

// ValidatePerson: todos os campos obrigatórios e nascimento antes de hoje.
func ValidatePerson(field string, p models.EvaluatedPerson, today time.Time) error {
	check := func(name, v string, max int) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return httperr.ErrValidation("invalid_person", field+"."+name+": obligatoire.")
		}
		if len([]rune(v)) > max {
			return httperr.ErrValidation("invalid_person", field+"."+name+": trop long.")
		}
		return nil
	}

	if err := check("firstname", p.Firstname, 100); err != nil {
		return err
	}
	if err := check("lastname", p.Lastname, 100); err != nil {
		return err
	}
	if err := check("patronyms", p.Patronyms, 255); err != nil {
		return err
	}

	if p.Birthdate == nil {
		return httperr.ErrValidation("invalid_person", field+".birthdate: obligatoire.")
	}
	d := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	b := time.Date(p.Birthdate.Year(), p.Birthdate.Month(), p.Birthdate.Day(), 0, 0, 0, 0, today.Location())
	if !b.Before(d) {
		return httperr.ErrValidation("invalid_person", field+".birthdate: doit être antérieure à aujourd'hui.")
	}

	return nil
}
