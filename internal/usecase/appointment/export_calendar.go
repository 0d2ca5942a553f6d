package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/events"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

// Renderer transforma os agendamentos no arquivo exportado.
type Renderer func(apps []models.Appointment, now time.Time) []byte

type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type ExportCalendarInput struct {
	IncludePending bool
	OnlyNotSent    bool
}

type ExportCalendarResult struct {
	Count    int    `json:"count"`
	Location string `json:"location,omitempty"`
}

type ExportCalendar struct {
	repo     domain.Repository
	render   Renderer
	uploader Uploader
	events   events.Sink
	now      clock
}

func NewExportCalendar(
	repo domain.Repository,
	render Renderer,
	uploader Uploader,
	sink events.Sink,
) *ExportCalendar {
	return &ExportCalendar{
		repo:     repo,
		render:   render,
		uploader: uploader,
		events:   sink,
		now:      defaultClock,
	}
}

// Execute gera o .ics, envia e só então marca os agendamentos como
// enviados. Upload com erro não marca nada.
func (uc *ExportCalendar) Execute(ctx context.Context, in ExportCalendarInput) (*ExportCalendarResult, error) {
	apps, err := uc.repo.ListForCalendarExport(ctx, in.IncludePending, in.OnlyNotSent)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return &ExportCalendarResult{}, nil
	}

	now := uc.now()
	key := fmt.Sprintf("calendar/%s.ics", now.UTC().Format("20060102T150405Z"))

	location, err := uc.uploader.Upload(ctx, key, uc.render(apps, now), "text/calendar; charset=utf-8")
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(apps))
	for _, ap := range apps {
		ids = append(ids, ap.ID)
	}
	if err := uc.repo.MarkAsSent(ctx, ids); err != nil {
		return nil, err
	}

	uc.events.Dispatch(events.New(events.CalendarExported, 0, nil, map[string]any{
		"count":    len(ids),
		"location": location,
	}))

	return &ExportCalendarResult{Count: len(ids), Location: location}, nil
}
