package container

import (
	"context"
	"fmt"

	"churnscope/adapters/excel"
	"churnscope/adapters/postgres"
	"churnscope/internal"
	"churnscope/internal/config"
	"churnscope/internal/dataset"
	"churnscope/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure, only set for the postgres source
	DB *sqlx.DB

	Source ports.DataSource
	Loader *dataset.Loader
	Store  *dataset.Store

	logger *internal.Logger
}

// New creates a container and wires the data source selected by cfg. The dataset is
// not loaded yet; call Store.Load.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		logger: internal.DefaultLogger.With("Container"),
	}

	if err := c.initSource(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize data source: %w", err)
	}

	c.Loader = dataset.NewLoader(c.Source)
	c.Store = dataset.NewStore(c.Loader)

	c.logger.Info("Container initialized with %s source %s", cfg.Data.Source, c.Source.Name())
	return c, nil
}

// initSource builds the file or database source
func (c *Container) initSource(ctx context.Context) error {
	switch c.Config.Data.Source {
	case config.SourcePostgres:
		db, err := postgres.Connect(ctx, c.Config.Database.URL)
		if err != nil {
			return err
		}
		c.DB = db
		c.Source = postgres.NewCustomerSource(db, c.Config.Data.Table)
	case config.SourceExcel, config.SourceCSV:
		excelConfig := excel.DefaultExcelConfig()
		excelConfig.FilePath = c.Config.Data.File
		excelConfig.SheetName = c.Config.Data.SheetName
		c.Source = excel.NewDataReader(excelConfig)
	default:
		return fmt.Errorf("unknown source %q", c.Config.Data.Source)
	}
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
