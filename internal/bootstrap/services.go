package bootstrap

import (
	app "github.com/mohammadpnp/student-import/internal/application/student"
	"github.com/mohammadpnp/student-import/internal/config"
	"github.com/mohammadpnp/student-import/internal/infrastructure/repository"
	"github.com/mohammadpnp/student-import/internal/infrastructure/security"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services holds the use cases shared by the HTTP server and the CLI.
type Services struct {
	ImportStudents app.ImportStudentsFromCSV
	Preview        app.PreviewStudentsImport
	GetImportRun   app.GetImportRun
}

func NewServices(db *gorm.DB, cfg config.Config, logger *zap.Logger) Services {
	gateway := repository.NewStudentGateway(db)
	runs := repository.NewImportRunRepository(db)

	resolver := app.NewStrategyResolver(
		app.NewSuffixAllocator(gateway),
		security.NewBcryptHasher(cfg.BcryptCost),
		cfg.ImportDefaultPassword,
	)
	orchestrator := app.NewBatchOrchestrator(gateway, resolver, cfg.ImportBatchSize, logger.Named("orchestrator"))

	return Services{
		ImportStudents: app.NewImportStudentsFromCSV(orchestrator, runs, logger.Named("import")),
		Preview:        app.NewPreviewStudentsImport(gateway, cfg.ImportBatchSize),
		GetImportRun:   app.NewGetImportRun(runs),
	}
}
