package schedule

import (
	"regexp"
	"strconv"

	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
)

var (
	hmRe       = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	openDaysRe = regexp.MustCompile(`^[1-7](,[1-7]){0,6}$`)
	digitsRe   = regexp.MustCompile(`^\d+$`)
)

// ValidateSetting aplica as regras de escrita do admin e devolve o valor a
// ser gravado.
func ValidateSetting(key, value string) (string, error) {
	switch key {
	case KeyMorningStart, KeyMorningEnd, KeyAfternoonStart, KeyAfternoonEnd:
		if !hmRe.MatchString(value) {
			return "", httperr.ErrValidation("invalid_setting", key+": format HH:MM attendu.")
		}
	case KeyOpenDays:
		if !openDaysRe.MatchString(value) {
			return "", httperr.ErrValidation("invalid_setting", key+": liste de jours 1 à 7 attendue.")
		}
	case KeySlotBufferMinutes:
		if !digitsRe.MatchString(value) {
			return "", httperr.ErrValidation("invalid_setting", key+": entier attendu.")
		}
		if n, _ := strconv.Atoi(value); n > MaxBufferMinutes {
			return "", httperr.ErrValidation("invalid_setting", key+": maximum 240.")
		}
	case KeyFixedSlots, KeyMaintenance:
		if value != "0" && value != "1" {
			return "", httperr.ErrValidation("invalid_setting", key+": 0 ou 1 attendu.")
		}
	case KeySlotStepMinutes:
		if !digitsRe.MatchString(value) {
			return "", httperr.ErrValidation("invalid_setting", key+": entier attendu.")
		}
		if n, _ := strconv.Atoi(value); n < 5 {
			return "", httperr.ErrValidation("invalid_setting", key+": minimum 5.")
		}
	case KeyRescheduleMinNoticeHours:
		if value == "" {
			return Defaults[KeyRescheduleMinNoticeHours], nil
		}
		if !digitsRe.MatchString(value) {
			return "", httperr.ErrValidation("invalid_setting", key+": entier positif attendu.")
		}
	case KeyOpeningDelayHours:
		if !digitsRe.MatchString(value) {
			return "", httperr.ErrValidation("invalid_setting", key+": entier positif attendu.")
		}
	default:
		return "", httperr.ErrValidation("unknown_setting", key)
	}
	return value, nil
}
