package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

const icsTime = "20060102T150405Z"

// BuildICS gera um VCALENDAR com um VEVENT por agendamento (horários em UTC).
func BuildICS(apps []models.Appointment, now time.Time) []byte {
	var b strings.Builder

	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//appointment-scheduler//FR")
	line("CALSCALE:GREGORIAN")

	for _, ap := range apps {
		line("BEGIN:VEVENT")
		line(fmt.Sprintf("UID:appointment-%d@appointment-scheduler", ap.ID))
		line("DTSTAMP:" + now.UTC().Format(icsTime))
		line("DTSTART:" + ap.StartAt.UTC().Format(icsTime))
		line("DTEND:" + ap.EndAt.UTC().Format(icsTime))
		line("SUMMARY:" + escape(summary(ap)))
		line("STATUS:" + icsStatus(ap.Status))
		if ap.Number != nil {
			line("DESCRIPTION:" + escape("Réservation "+*ap.Number))
		}
		line("END:VEVENT")
	}

	line("END:VCALENDAR")
	return []byte(b.String())
}

func summary(ap models.Appointment) string {
	name := strings.TrimSpace(ap.Principal.Firstname + " " + ap.Principal.Lastname)
	if name == "" {
		return ap.AppointmentType.Name
	}
	return ap.AppointmentType.Name + " - " + name
}

func icsStatus(s string) string {
	if s == "confirmed" {
		return "CONFIRMED"
	}
	return "TENTATIVE"
}

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

func escape(s string) string {
	return icsEscaper.Replace(s)
}
