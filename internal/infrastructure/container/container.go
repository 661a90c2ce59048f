package container

import (
	"database/sql"
	"os"
	"path/filepath"

	"netprofile-agent/internal/application/usecases"
	"netprofile-agent/internal/domain/interfaces"
	"netprofile-agent/internal/infrastructure/adapters"
	"netprofile-agent/internal/infrastructure/config"
	"netprofile-agent/internal/infrastructure/health"
	"netprofile-agent/internal/infrastructure/i18n"
	"netprofile-agent/internal/infrastructure/network"
	"netprofile-agent/internal/infrastructure/persistence"

	"github.com/sirupsen/logrus"
)

var _ usecases.TransactionObserver = (*health.HealthService)(nil)

// Container wires the application's dependencies together
type Container struct {
	config *config.Config
	logger *logrus.Logger

	// infrastructure adapters
	fileSystem       interfaces.FileSystem
	commandExecutor  interfaces.CommandExecutor
	clock            interfaces.Clock
	platformDetector interfaces.PlatformDetector

	// services
	healthService   *health.HealthService
	platformFactory *network.PlatformFactory
	translator      interfaces.Translator

	// persistence
	ledger       interfaces.UndoLedger
	profileStore interfaces.ProfileStore

	// use cases
	engine *usecases.TransactionEngine

	// platform surface
	inventory interfaces.InterfaceInventory

	// local database
	db *sql.DB
}

// NewContainer creates a new Container
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	container := &Container{
		config: cfg,
		logger: logger,
	}

	if err := container.initializeInfrastructure(); err != nil {
		return nil, err
	}

	if err := container.initializeServices(); err != nil {
		return nil, err
	}

	if err := container.initializeEngine(); err != nil {
		return nil, err
	}

	return container, nil
}

// initializeInfrastructure initializes adapters and the local store
func (c *Container) initializeInfrastructure() error {
	c.fileSystem = adapters.NewRealFileSystem()
	c.commandExecutor = adapters.NewRealCommandExecutor()
	c.clock = adapters.NewRealClock()
	c.platformDetector = adapters.NewRealPlatformDetector(c.fileSystem)

	if err := os.MkdirAll(c.config.Store.DataDirectory, 0o700); err != nil {
		return err
	}

	db, err := persistence.OpenDatabase(filepath.Join(c.config.Store.DataDirectory, "netprofile.db"))
	if err != nil {
		return err
	}
	c.db = db

	ledger, err := persistence.NewSQLiteUndoLedger(c.db, c.logger)
	if err != nil {
		db.Close()
		return err
	}
	c.ledger = ledger

	profileStore, err := persistence.NewSQLiteProfileStore(c.db, c.logger)
	if err != nil {
		db.Close()
		return err
	}
	c.profileStore = profileStore

	return nil
}

// initializeServices initializes shared services
func (c *Container) initializeServices() error {
	c.healthService = health.NewHealthService(c.clock, c.logger)
	c.healthService.UpdateLedgerHealth(true, nil)

	c.platformFactory = network.NewPlatformFactory(
		c.platformDetector,
		c.commandExecutor,
		c.logger,
	)

	var translator *i18n.CatalogTranslator
	var err error
	if dir := c.config.Locale.CatalogDir; dir != "" {
		translator, err = i18n.NewCatalogTranslatorFromDir(dir, c.config.Locale.Language)
	} else {
		translator, err = i18n.NewCatalogTranslator(c.config.Locale.Language)
	}
	if err != nil {
		return err
	}
	c.translator = translator

	return nil
}

// initializeEngine initializes the transaction engine
func (c *Container) initializeEngine() error {
	intentTranslator, err := c.platformFactory.CreateTranslator()
	if err != nil {
		return err
	}

	inventory, err := c.platformFactory.CreateInventory()
	if err != nil {
		return err
	}
	c.inventory = inventory

	platform, _ := c.platformDetector.Detect()
	distro := c.platformDetector.DistroID()
	c.healthService.SetPlatform(string(platform), distro)
	c.logger.WithFields(logrus.Fields{
		"platform": platform,
		"distro":   distro,
	}).Info("platform toolchain selected")

	c.engine = usecases.NewTransactionEngine(
		inventory,
		c.ledger,
		intentTranslator,
		c.commandExecutor,
		c.clock,
		c.healthService,
		c.logger,
		c.config.Engine.CommandTimeout,
		c.config.Engine.VerifyRetries,
		c.config.Engine.VerifyDelay,
	)

	return nil
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetHealthService returns the health service
func (c *Container) GetHealthService() *health.HealthService {
	return c.healthService
}

// GetEngine returns the transaction engine
func (c *Container) GetEngine() *usecases.TransactionEngine {
	return c.engine
}

// GetProfileStore returns the profile store
func (c *Container) GetProfileStore() interfaces.ProfileStore {
	return c.profileStore
}

// GetUndoLedger returns the undo ledger
func (c *Container) GetUndoLedger() interfaces.UndoLedger {
	return c.ledger
}

// GetInventory returns the interface inventory
func (c *Container) GetInventory() interfaces.InterfaceInventory {
	return c.inventory
}

// GetPlatformDetector returns the platform detector
func (c *Container) GetPlatformDetector() interfaces.PlatformDetector {
	return c.platformDetector
}

// GetTranslator returns the message translator
func (c *Container) GetTranslator() interfaces.Translator {
	return c.translator
}

// Close releases the container's resources
func (c *Container) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
