package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/yashrajoria/product-catalog/services/catalog-service/config"
	"github.com/yashrajoria/product-catalog/services/catalog-service/repository"
	"github.com/yashrajoria/product-catalog/services/catalog-service/services"
	"github.com/yashrajoria/product-catalog/services/catalog-service/state"
	apperrors "github.com/yashrajoria/product-catalog/services/common/errors"
	"github.com/yashrajoria/product-catalog/services/common/logger"
)

// backendFactory opens the repository for one CLI invocation.
type backendFactory func(ctx context.Context, cfg repository.Config) (*repository.Backend, error)

// flags are the global overrides applied on top of the environment.
type flags struct {
	mock    bool
	backend string
	apiURL  string
	latency time.Duration
	output  string
	noColor bool
	verbose bool
}

type app struct {
	out        io.Writer
	newBackend backendFactory
	flags      flags

	backend *repository.Backend
	service *services.ProductService
	state   *state.ProductsState
}

func newApp(out io.Writer) *app {
	return &app{out: out, newBackend: repository.NewProductRepository}
}

// setup resolves configuration, selects the backend once and builds the state holder.
func (a *app) setup(ctx context.Context, changed func(name string) bool) error {
	if a.flags.verbose {
		logger.Initialize("development")
	}
	if a.flags.noColor {
		text.DisableColors()
	}
	if a.flags.output != outputTable && a.flags.output != outputJSON {
		return fmt.Errorf("unknown output format %q", a.flags.output)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	rc := cfg.RepositoryConfig()
	if changed("mock") {
		rc.UseMockData = a.flags.mock
	}
	if changed("backend") {
		rc.Backend = a.flags.backend
		if !changed("mock") {
			rc.UseMockData = a.flags.backend == repository.BackendMock
		}
	}
	if changed("api-url") {
		rc.APIBaseURL = a.flags.apiURL
	}
	if changed("latency") {
		rc.MockLatency = a.flags.latency
	}

	backend, err := a.newBackend(ctx, rc)
	if err != nil {
		return err
	}
	a.backend = backend
	a.service = services.NewProductService(backend.Repository, services.WithLogger(logger.Log))
	a.state = state.NewProductsState(a.service)
	return nil
}

func (a *app) close(ctx context.Context) error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Close(ctx)
	a.backend = nil
	return err
}

// userError reduces err to the message shown to the user, dropping wrapped causes.
func userError(err error) error {
	if err == nil {
		return nil
	}
	msg := apperrors.Message(err)
	if msg == "" {
		msg = "An error occurred"
	}
	return errors.New(msg)
}

// stateError turns the state holder's error string into a command error.
func (a *app) stateError() error {
	if msg := a.state.Snapshot().Error; msg != "" {
		return errors.New(msg)
	}
	return nil
}
