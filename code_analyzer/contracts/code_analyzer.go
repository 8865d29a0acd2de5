package contracts

import (
	"context"

	"github.com/neon/webtidy/code_analyzer/models"
)

type ICodeAnalyzer interface {
	FindUnusedFiles(ctx context.Context) (*models.ScanResult, error)
	InspectFile(path string) (*models.FileInspection, error)
	GetCacheStats() (*models.CacheEntryStats, error)
	ClearCache() error
}
