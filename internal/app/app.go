package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/appointment-scheduler/internal/audit"
	"github.com/BruksfildServices01/appointment-scheduler/internal/auth"
	"github.com/BruksfildServices01/appointment-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/appointment-scheduler/internal/db"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/appointment-scheduler/internal/events"
	"github.com/BruksfildServices01/appointment-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/appointment-scheduler/internal/infra/export"
	"github.com/BruksfildServices01/appointment-scheduler/internal/infra/messaging"
	"github.com/BruksfildServices01/appointment-scheduler/internal/infra/notify"
	mp "github.com/BruksfildServices01/appointment-scheduler/internal/infra/payment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/appointment-scheduler/internal/timezone"
	"github.com/BruksfildServices01/appointment-scheduler/internal/usecase/admin"
	"github.com/BruksfildServices01/appointment-scheduler/internal/usecase/appointment"
)

// App junta infraestrutura e use cases. Usado pelo servidor HTTP e pelos
// jobs da linha de comando.
type App struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	Tokens *auth.Tokens
	Events *events.Dispatcher

	Appointments  *repository.AppointmentGormRepository
	Blackouts     *repository.BlackoutGormRepository
	SettingsStore *repository.SettingsGormRepository
	Users         *repository.UserGormRepository

	Settings schedule.Provider
	Engine   *slot.Engine
	Gateway  payment.Gateway

	// -------- Use cases --------
	BookSlot        *appointment.BookSlot
	ConfirmPayment  *appointment.ConfirmPayment
	CancelQuote     *appointment.CancelQuote
	Cancel          *appointment.CancelAppointment
	Reschedule      *appointment.RescheduleAppointment
	UpdatePersons   *appointment.UpdatePersons
	ExpirePending   *appointment.ExpirePending
	SendReminders   *appointment.SendReminders
	Availability    *appointment.GetAvailability
	ListMine        *appointment.ListMyAppointments
	ExportCalendar  *appointment.ExportCalendar
	Checkout        *appointment.CreateCheckout
	PaymentWebhook  *appointment.HandlePaymentWebhook
	GetSettings     *admin.GetSettings
	UpdateSettings  *admin.UpdateSettings
	BlockDay        *admin.BlockDay
	AddBlackout     *admin.AddUnavailability
	CreateType      *admin.CreateType

	closers []func() error
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	timezone.Configure(cfg.Timezone)

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := dbpkg.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	a := &App{
		Config:        cfg,
		Log:           log,
		DB:            db,
		Tokens:        auth.NewTokens(cfg.JWTSecret),
		Appointments:  repository.NewAppointmentGormRepository(db),
		Blackouts:     repository.NewBlackoutGormRepository(db),
		SettingsStore: repository.NewSettingsGormRepository(db),
		Users:         repository.NewUserGormRepository(db),
	}

	// ======================================================
	// Cache (Redis opcional)
	// ======================================================
	a.Settings = schedule.NewStoreProvider(a.SettingsStore)
	var rangeCache appointment.RangeCache

	if rdb, err := cache.NewRedisClient(cfg.RedisURL); err != nil {
		log.Warn("redis disabled", zap.Error(err))
	} else if err := pingRedis(ctx, rdb); err != nil {
		log.Warn("redis unreachable, running without cache", zap.Error(err))
		_ = rdb.Close()
	} else {
		a.Settings = cache.NewSettingsProvider(a.SettingsStore, rdb, cfg.SettingsCacheTTL, log)
		rangeCache = cache.NewSlotRangeCache(rdb)
		a.closers = append(a.closers, rdb.Close)
	}

	// ======================================================
	// Eventos: audit + e-mail + kafka
	// ======================================================
	var sender notify.Sender = notify.NoopSender{}
	if cfg.SMTPHost != "" {
		sender = notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	} else {
		log.Warn("smtp disabled, emails are dropped")
	}
	notifier := notify.NewNotifier(sender, a.Appointments, log)

	handlers := []events.Handler{audit.New(db), notifier}
	if len(cfg.KafkaBrokers) > 0 {
		pub := messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		handlers = append(handlers, pub)
		a.closers = append(a.closers, pub.Close)
	}
	a.Events = events.NewDispatcher(log, handlers...)

	// ======================================================
	// Pagamento / exportação
	// ======================================================
	if cfg.MPAccessToken == "" {
		log.Warn("MP_ACCESS_TOKEN not set, checkout calls will fail")
	}
	gateway, err := mp.NewMercadoPagoGateway(cfg.MPAccessToken, cfg.MPNotificationURL)
	if err != nil {
		return nil, err
	}
	a.Gateway = gateway

	uploader := export.NewS3Uploader(export.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})

	// ======================================================
	// Use cases
	// ======================================================
	a.Engine = slot.NewEngine(a.Blackouts, a.Appointments)

	a.BookSlot = appointment.NewBookSlot(a.Appointments, a.Settings, a.Engine, a.Events)
	a.ConfirmPayment = appointment.NewConfirmPayment(a.Appointments, a.Events)
	a.CancelQuote = appointment.NewCancelQuote(a.Appointments, a.Tokens)
	a.Cancel = appointment.NewCancelAppointment(a.Appointments, a.Tokens, a.Events)
	a.Reschedule = appointment.NewRescheduleAppointment(a.Appointments, a.Settings, a.Engine, a.Events)
	a.UpdatePersons = appointment.NewUpdatePersons(a.Appointments, a.Events)
	a.ExpirePending = appointment.NewExpirePending(a.Appointments, a.Events, log)
	a.SendReminders = appointment.NewSendReminders(a.Appointments, notifier, a.Events, log)
	a.Availability = appointment.NewGetAvailability(a.Appointments, a.Settings, a.Engine, rangeCache)
	a.ListMine = appointment.NewListMyAppointments(a.Appointments)
	a.ExportCalendar = appointment.NewExportCalendar(a.Appointments, export.BuildICS, uploader, a.Events)
	a.Checkout = appointment.NewCreateCheckout(a.Appointments, a.Gateway)
	a.PaymentWebhook = appointment.NewHandlePaymentWebhook(a.Gateway, a.ConfirmPayment, log)

	a.GetSettings = admin.NewGetSettings(a.Settings)
	a.UpdateSettings = admin.NewUpdateSettings(a.SettingsStore, a.Settings, a.Events)
	a.BlockDay = admin.NewBlockDay(a.Blackouts)
	a.AddBlackout = admin.NewAddUnavailability(a.Blackouts)
	a.CreateType = admin.NewCreateType(a.Appointments)

	return a, nil
}

func pingRedis(ctx context.Context, rdb *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return rdb.Ping(ctx).Err()
}

// Close drena os eventos pendentes antes de fechar as conexões.
func (a *App) Close() {
	a.Events.Close()

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("close failed", zap.Error(err))
		}
	}

	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.Log.Sync()
}
