package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayhub/internal/app/commands"
	availabilityapp "stayhub/internal/app/handlers/availability"
	bookingapp "stayhub/internal/app/handlers/booking"
	pricingapp "stayhub/internal/app/handlers/pricing"
	searchapp "stayhub/internal/app/handlers/search"
	unitsapp "stayhub/internal/app/handlers/units"
	appoutbox "stayhub/internal/app/outbox"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/support"
	domainavailability "stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainpricing "stayhub/internal/domain/pricing"
	domainunits "stayhub/internal/domain/units"
	"stayhub/internal/infra/broker/kafka"
	"stayhub/internal/infra/config"
	infradb "stayhub/internal/infra/db/mongo"
	ginserver "stayhub/internal/infra/http/gin"
	"stayhub/internal/infra/obs"
	infraoutbox "stayhub/internal/infra/outbox"
	"stayhub/internal/infra/storage/memory"
	"stayhub/internal/infra/storage/s3"
)

type stores struct {
	units     domainunits.Repository
	bookings  domainbooking.Repository
	ledgers   domainpricing.LedgerRepository
	calendars domainavailability.Repository
	outbox    appoutbox.Outbox
	relay     infraoutbox.Store
	ready     func() error
	close     func(context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("dev").Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	st, err := buildStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("store init failed", "error", err)
		os.Exit(1)
	}

	uploader := buildUploader(cfg, logger)
	commandBus, queryBus := buildBuses(cfg, logger, st, uploader)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: st.ready,
	}, ginserver.Handlers{
		Unit:         ginserver.UnitHandler{Commands: commandBus, Queries: queryBus},
		Pricing:      ginserver.PricingHandler{Commands: commandBus},
		Availability: ginserver.AvailabilityHandler{Queries: queryBus},
		Booking:      ginserver.BookingHandler{Commands: commandBus, Queries: queryBus},
		Search:       ginserver.SearchHandler{Queries: queryBus},
	})

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		worker := &infraoutbox.Worker{
			Logger:       logger,
			Store:        st.relay,
			Publisher:    producer,
			Source:       "stayhub",
			TopicPrefix:  cfg.KafkaTopicPrefix,
			BatchSize:    cfg.OutboxBatchSize,
			PollInterval: cfg.OutboxPollInterval,
		}
		go worker.Run(ctx)
		logger.Info("outbox relay started", "brokers", cfg.KafkaBrokers, "poll", cfg.OutboxPollInterval)
	} else {
		logger.Warn("KAFKA_BROKERS not set, domain events stay in the outbox")
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		if st.close != nil {
			if err := st.close(shutdownCtx); err != nil {
				logger.Error("store shutdown failed", "error", err)
			}
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func buildStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (stores, error) {
	if cfg.StoreMode == config.StoreMongo {
		client, err := infradb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return stores{}, err
		}
		if err := client.Ping(ctx); err != nil {
			return stores{}, err
		}
		st := stores{
			units:     infradb.NewUnitRepository(client.DB),
			bookings:  infradb.NewBookingRepository(client.DB),
			ledgers:   infradb.NewLedgerRepository(client.DB, cfg.Currency),
			calendars: memory.NewCalendarRepository(),
			ready:     func() error { return client.Ping(context.Background()) },
			close:     client.Close,
		}
		outboxStore := infradb.NewOutboxStore(client.DB)
		st.outbox = outboxStore
		st.relay = outboxStore
		if err := rebuildCalendars(ctx, st.bookings, st.calendars); err != nil {
			return stores{}, err
		}
		logger.Info("mongo store ready", "db", cfg.MongoDB)
		return st, nil
	}

	outboxStore := memory.NewOutboxStore()
	return stores{
		units:     memory.NewUnitRepository(),
		bookings:  memory.NewBookingRepository(),
		ledgers:   memory.NewLedgerRepository(cfg.Currency),
		calendars: memory.NewCalendarRepository(),
		outbox:    outboxStore,
		relay:     outboxStore,
		ready:     func() error { return nil },
	}, nil
}

// rebuildCalendars derives the availability index from the persisted
// bookings. Calendars are not stored durably; blocking bookings are the
// source of truth.
func rebuildCalendars(ctx context.Context, bookings domainbooking.Repository, calendars domainavailability.Repository) error {
	list, err := bookings.List(ctx)
	if err != nil {
		return err
	}
	byUnit := make(map[domainunits.UnitID]*domainavailability.Calendar)
	for _, b := range list {
		if !b.Blocking() {
			continue
		}
		cal, ok := byUnit[b.UnitID]
		if !ok {
			cal = domainavailability.NewCalendar(b.UnitID)
			byUnit[b.UnitID] = cal
		}
		if err := cal.Reserve(b.Range, string(b.ID), b.GuestID, b.CreatedAt); err != nil {
			return err
		}
	}
	for _, cal := range byUnit {
		cal.ClearEvents()
		if err := calendars.Save(ctx, cal); err != nil {
			return err
		}
	}
	return nil
}

func buildUploader(cfg config.Config, logger *slog.Logger) s3.Uploader {
	if !cfg.S3Enabled {
		return s3.NoopUploader{}
	}
	client, err := s3.NewClient(s3.Config{
		Endpoint:      cfg.S3Endpoint,
		UseSSL:        cfg.S3UseSSL,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		PublicBaseURL: cfg.S3PublicEndpoint,
	}, logger)
	if err != nil {
		logger.Warn("s3 uploader unavailable", "error", err)
		return s3.NoopUploader{}
	}
	return client
}

func buildBuses(cfg config.Config, logger *slog.Logger, st stores, uploader s3.Uploader) (*commands.InMemoryBus, *queries.InMemoryBus) {
	locker := support.NewUnitLocker()
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()

	commands.RegisterHandler(commandBus, unitsapp.CreateUnitCommand{}.Key(), &unitsapp.CreateUnitHandler{
		Logger: logger, Units: st.units, Outbox: st.outbox, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, unitsapp.UpdateUnitCommand{}.Key(), &unitsapp.UpdateUnitHandler{
		Units: st.units, Outbox: st.outbox, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, unitsapp.DeleteUnitCommand{}.Key(), &unitsapp.DeleteUnitHandler{
		Logger: logger, Units: st.units, Outbox: st.outbox, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, unitsapp.DeleteHostUnitsCommand{}.Key(), &unitsapp.DeleteHostUnitsHandler{
		Logger: logger, Units: st.units, Bookings: st.bookings, Calendars: st.calendars,
		Locker: locker, Outbox: st.outbox, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, unitsapp.UploadUnitPhotoCommand{}.Key(), &unitsapp.UploadUnitPhotoHandler{
		Logger: logger, Units: st.units, Uploader: uploader, Outbox: st.outbox, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, pricingapp.AdjustPricesCommand{}.Key(), &pricingapp.AdjustPricesHandler{
		Logger: logger, Units: st.units, Ledgers: st.ledgers, Calendars: st.calendars,
		Locker: locker, Currency: cfg.Currency, Outbox: st.outbox, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.RequestBookingCommand{}.Key(), &bookingapp.RequestBookingHandler{
		Logger: logger, Units: st.units, Bookings: st.bookings, Ledgers: st.ledgers,
		Calendars: st.calendars, Locker: locker, Outbox: st.outbox, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.SetBookingStatusCommand{}.Key(), &bookingapp.SetBookingStatusHandler{
		Logger: logger, Units: st.units, Bookings: st.bookings, Calendars: st.calendars,
		Locker: locker, Outbox: st.outbox, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		Logger: logger, Bookings: st.bookings, Calendars: st.calendars,
		Locker: locker, Outbox: st.outbox, Encoder: encoder,
	})

	queries.RegisterHandler(queryBus, unitsapp.GetUnitQuery{}.Key(), &unitsapp.GetUnitHandler{Units: st.units})
	queries.RegisterHandler(queryBus, unitsapp.ListUnitsQuery{}.Key(), &unitsapp.ListUnitsHandler{Units: st.units})
	queries.RegisterHandler(queryBus, unitsapp.ListHostUnitsQuery{}.Key(), &unitsapp.ListHostUnitsHandler{Units: st.units})
	queries.RegisterHandler(queryBus, bookingapp.GetBookingQuery{}.Key(), &bookingapp.GetBookingHandler{Bookings: st.bookings})
	queries.RegisterHandler(queryBus, bookingapp.ListGuestBookingsQuery{}.Key(), &bookingapp.ListGuestBookingsHandler{Bookings: st.bookings})
	queries.RegisterHandler(queryBus, bookingapp.ListHostBookingsQuery{}.Key(), &bookingapp.ListHostBookingsHandler{Units: st.units, Bookings: st.bookings})
	queries.RegisterHandler(queryBus, availabilityapp.MonthViewQuery{}.Key(), &availabilityapp.MonthViewHandler{
		Units: st.units, Ledgers: st.ledgers, Calendars: st.calendars, Locker: locker,
	})
	queries.RegisterHandler(queryBus, searchapp.SearchUnitsQuery{}.Key(), &searchapp.SearchUnitsHandler{
		Units: st.units, Ledgers: st.ledgers, Calendars: st.calendars, Locker: locker,
	})

	return commandBus, queryBus
}
