package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type stores struct {
	catalog port.Catalog
	seeder  port.CatalogSeeder
	cart    port.CartStore
	sqldb   *storage.SQLDB
}

// analytics is set only when brokers are configured.
type analytics struct {
	serde     schema.Serde
	producer  *kafka.CartEventsProducer
	processor *kafka.ProductPopularityProcessor
	view      *kafka.ProductPopularityView
	processWg sync.WaitGroup
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	stores     stores
	analytics  *analytics
	service    service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initAnalytics()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"
	log := slog.With("op", op)

	if app.cfg.SQLDB == "" {
		catalog := storage.NewMemoryCatalog()
		app.stores = stores{
			catalog: catalog,
			seeder:  catalog,
			cart:    storage.NewMemoryCart(catalog),
		}
		log.Info("using in-memory storage")
	} else {
		db, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
		if err != nil {
			app.fallDown(op, err)
		}
		products := storage.NewProductsRepository(db)
		app.stores = stores{
			catalog: products,
			seeder:  products,
			cart:    storage.NewCartItemsRepository(db),
			sqldb:   &db,
		}
		log.Info("using sql storage")
	}

	if !app.cfg.SeedCatalog {
		return
	}
	n, err := storage.SeedCatalog(app.ctx, app.stores.seeder)
	if err != nil {
		app.fallDown(op, err)
	}
	log.Info("catalog is seeded", "nProducts", n)
}

func (app *App) initAnalytics() {
	const op = "App.initAnalytics"
	log := slog.With("op", op)

	bcfg := app.cfg.Broker
	if !bcfg.Enabled() {
		log.Info("brokers are not configured, cart events are disabled")
		return
	}

	tlsConfig, err := adapter.MakeTLSConfig(
		bcfg.TLS.CAFile, bcfg.TLS.CertFile, bcfg.TLS.KeyFile,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	kafka.ApplyGokaTLS(tlsConfig)

	a := &analytics{}
	a.serde = app.newCartEventSerde(tlsConfig)

	producer, err := kafka.NewCartEventsProducer(
		kafka.ProducerClientOpt(
			app.ctx, bcfg.SeedBrokers, bcfg.Topics.CartEvents, tlsConfig,
		),
		kafka.ProducerEncoderOpt(a.serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	a.producer = &producer

	a.processor, err = kafka.NewProductPopularityProc(
		bcfg.SeedBrokers,
		bcfg.Topics.CartEvents,
		bcfg.Groups.ProductPopularity,
		a.serde,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	a.view, err = kafka.NewProductPopularityView(
		bcfg.SeedBrokers, bcfg.Groups.ProductPopularity,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.analytics = a
}

func (app *App) newCartEventSerde(tlsConfig *tls.Config) schema.Serde {
	const op = "App.newCartEventSerde"

	opts := []sr.ClientOpt{sr.URLs(app.cfg.Broker.SchemaRegistryURLs...)}
	if tlsConfig != nil {
		opts = append(opts, sr.DialTLSConfig(tlsConfig))
	}
	srClient, err := sr.NewClient(opts...)
	if err != nil {
		app.fallDown(op, err)
	}

	subject := app.cfg.Broker.Topics.CartEvents + "-value"
	serde, err := schema.NewSerdeCartEventV1(
		app.ctx,
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	return serde
}

func (app *App) initCoreService() {
	var (
		events     port.CartEventsProducer
		popularity port.PopularityView
	)
	if app.analytics != nil {
		events = app.analytics.producer
		popularity = app.analytics.view
	}

	app.service = service.New(
		app.stores.catalog,
		app.stores.cart,
		events,
		popularity,
		app.cfg.TaxRate,
	)
}

func (app *App) initInboundAdapters() {
	var popularity port.PopularityReader
	if app.analytics != nil {
		popularity = app.service
	}

	handler := httphandler.NewRouter(app.service, app.service, popularity)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	if a := app.analytics; a != nil {
		a.processWg.Add(2)
		go a.processor.Run(app.ctx, stopFn, &a.processWg)
		go a.view.Run(app.ctx, stopFn, &a.processWg)
	}

	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.Wait()

	if a := app.analytics; a != nil {
		a.processWg.Wait()
		a.processor.Close()
		a.producer.Close()
	}

	if app.stores.sqldb != nil {
		app.stores.sqldb.Close()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
