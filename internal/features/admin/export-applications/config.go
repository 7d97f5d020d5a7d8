// internal/features/admin/export-applications/config.go
package exportapplications

import "membership-portal/internal/common/config"

const (
	DefaultFileName  = "acm_applications.xlsx"
	DefaultSheetName = "Applications"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Config struct {
	FileName  string
	SheetName string
}

func LoadConfig(cfg config.ExportConfig) *Config {
	c := &Config{FileName: DefaultFileName, SheetName: DefaultSheetName}
	if cfg.FileName != "" {
		c.FileName = cfg.FileName
	}
	if cfg.SheetName != "" {
		c.SheetName = cfg.SheetName
	}
	return c
}
