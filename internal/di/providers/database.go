package providers

import (
	"github.com/samber/do/v2"

	"github.com/receitaapp/receita-server/internal/config"
	"github.com/receitaapp/receita-server/internal/logger"
	"github.com/receitaapp/receita-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the database and applies pending migrations.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := ensureDir(cfg.Data.BasePath); err != nil {
		return nil, err
	}

	dbPath := cfg.Data.DatabasePath()
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	version, _, err := db.SchemaVersion()
	if err != nil {
		log.Warn("Could not read schema version", "error", err)
	}
	log.Info("Database initialized", "path", dbPath, "schema_version", version)

	return &StoreHandle{Store: db}, nil
}
