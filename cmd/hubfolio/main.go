package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/hubfolio/hubfolio/internal/config"
	"github.com/hubfolio/hubfolio/internal/infra/database"
	"github.com/hubfolio/hubfolio/internal/infra/repository"
	"github.com/hubfolio/hubfolio/internal/present/rest"
	"github.com/hubfolio/hubfolio/internal/present/rest/middleware"
	"github.com/hubfolio/hubfolio/internal/service"
	"github.com/hubfolio/hubfolio/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = database.MigratePostgres(db)
	if err != nil {
		slog.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)
	mc := database.NewMemcached(conf.Server.MemcachedAddr)

	if conf.Server.EnableTrace {
		cleanup, err := setupTraceProvider(conf.Server.TraceEndpoint, conf.NodeInfo.FQDN)
		if err != nil {
			slog.Error("failed to setup trace provider", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer cleanup()
	}

	docRepo := repository.NewDocumentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	appRepo := repository.NewAppRepository(db)
	varRepo := repository.NewVariableRepository(db)
	reportRepo := repository.NewReportRepository(db)
	redirectRepo := repository.NewRedirectRepository(db)

	docUC := usecase.NewDocumentUsecase(docRepo, appRepo, varRepo)
	groupUC := usecase.NewGroupUsecase(groupRepo)
	appUC := usecase.NewAppUsecase(appRepo)
	varUC := usecase.NewVariableUsecase(varRepo)
	reportUC := usecase.NewReportUsecase(reportRepo)

	signalService := service.NewSignalService(rdb)
	counterService := service.NewCounterService(rdb)
	redirectService := service.NewRedirectService(redirectRepo, mc)
	vcardService := service.NewVCardService(varRepo)
	authService := service.NewAuthService(&conf.NodeInfo)

	handler := rest.NewHandler(
		conf.NodeInfo,
		docUC,
		groupUC,
		appUC,
		varUC,
		reportUC,
		signalService,
		counterService,
		redirectService,
		vcardService,
	)

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware(conf.NodeInfo.FQDN))
	}

	authMiddleware := middleware.NewAuthMiddleware(authService, conf.NodeInfo)
	e.Use(authMiddleware.IdentifyIdentity)

	handler.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(":8000"))
}

func setupTraceProvider(endpoint string, serviceName string) (func(), error) {
	exporter, err := otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return func() {
		tp.Shutdown(context.Background())
	}, nil
}
