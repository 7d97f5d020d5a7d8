// cmd/tools/portal-admin/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"membership-portal/internal/common/config"
	"membership-portal/internal/common/database"
	"membership-portal/internal/common/logger"
	exportapplications "membership-portal/internal/features/admin/export-applications"
	listapplications "membership-portal/internal/features/admin/list-applications"
	applicationstore "membership-portal/internal/features/data-access/application-store"
	"membership-portal/internal/models"
	"membership-portal/pkg/registry"
)

var registryPath string

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)
	addRoleCmd := flag.NewFlagSet("add-role", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// Export command flags
	outPath := exportCmd.String("out", "", "Output file (defaults to the configured export file name)")
	submittedOnly := exportCmd.Bool("submitted", false, "Only export submitted applications")

	// Stats command flags
	statsSubmitted := statsCmd.Bool("submitted", false, "Only count submitted applications")

	// Add-role command flags
	year := addRoleCmd.String("year", "", "Year value (e.g., 2)")
	role := addRoleCmd.String("role", "", "Role name (e.g., Technical Team)")
	addRoleCmd.StringVar(&registryPath, "path", "configs/form-registry.json", "Path to registry file")

	// Validate command flags
	validateCmd.StringVar(&registryPath, "path", "configs/form-registry.json", "Path to registry file")

	if len(os.Args) < 2 {
		help(os.Stdout)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		path, rows, err := exportApplications(*outPath, *submittedOnly)
		if err != nil {
			fmt.Printf("Error exporting applications: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d applications to %s\n", rows, path)

	case "stats":
		statsCmd.Parse(os.Args[2:])
		if err := printStats(*statsSubmitted); err != nil {
			fmt.Printf("Error reading applications: %v\n", err)
			os.Exit(1)
		}

	case "add-role":
		addRoleCmd.Parse(os.Args[2:])
		if *year == "" || *role == "" {
			fmt.Println("Error: year and role are required for add-role.")
			addRoleCmd.Usage()
			os.Exit(1)
		}
		if err := addRole(*year, *role); err != nil {
			fmt.Printf("Error adding role: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added role %q for year %s\n", *role, *year)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateRegistry(); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help(os.Stdout)
	}
}

// openLister connects to the configured application store.
func openLister(ctx context.Context) (*listapplications.Handler, *config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.NewStructured("warn", "console")

	storeCfg := applicationstore.LoadConfig(cfg.Store)
	var pg *database.PostgresClient
	var es *database.ElasticsearchClient
	cleanup := func() {}

	switch storeCfg.Driver {
	case config.StoreDriverPostgres:
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, nil, nil, err
		}
		cleanup = func() { pg.Close() }
	case config.StoreDriverElasticsearch:
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	store, err := applicationstore.New(storeCfg, pg, es, log)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	if err := store.Ping(ctx); err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("store unreachable: %w", err)
	}
	return listapplications.NewHandler(listapplications.LoadConfig(cfg.Store), store, log), cfg, cleanup, nil
}

func exportApplications(outPath string, submittedOnly bool) (string, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	list, cfg, cleanup, err := openLister(ctx)
	if err != nil {
		return "", 0, err
	}
	defer cleanup()

	var source exportapplications.Source = list
	if submittedOnly {
		source = submittedSource{list}
	}
	out, err := exportapplications.NewHandler(exportapplications.LoadConfig(cfg.Export), source, logger.NewNoOpLogger()).
		Execute(ctx, &exportapplications.Input{})
	if err != nil {
		return "", 0, err
	}

	if outPath == "" {
		outPath = out.FileName
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(outPath, out.Content, 0644); err != nil {
		return "", 0, fmt.Errorf("failed to write export file: %w", err)
	}
	return outPath, out.Rows, nil
}

// submittedSource narrows an export to submitted applications.
type submittedSource struct {
	list *listapplications.Handler
}

func (s submittedSource) All(ctx context.Context) ([]models.StoredApplication, error) {
	apps, err := s.list.All(ctx)
	if err != nil {
		return nil, err
	}
	return listapplications.FilterSubmitted(apps), nil
}

func printStats(submittedOnly bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	list, _, cleanup, err := openLister(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := list.Execute(ctx, &listapplications.Input{SubmittedOnly: submittedOnly})
	if err != nil {
		return err
	}
	fmt.Printf("Total:       %d\n", out.Stats.Total)
	fmt.Printf("Submitted:   %d\n", out.Stats.Submitted)
	fmt.Printf("Second year: %d\n", out.Stats.SecondYear)
	fmt.Printf("Third year:  %d\n", out.Stats.ThirdYear)
	return nil
}

func addRole(year, role string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		// If file doesn't exist, start from the built-in registry
		if os.IsNotExist(err) {
			reg = registry.Default()
		} else {
			return fmt.Errorf("failed to load registry: %w", err)
		}
	}

	if !reg.HasYear(year) {
		return fmt.Errorf("year %s is not in the registry", year)
	}
	if reg.HasRole(year, role) {
		return fmt.Errorf("role %q already exists for year %s", role, year)
	}

	reg.Roles[year] = append(reg.Roles[year], role)
	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return saveRegistry(reg, registryPath)
}

func validateRegistry() error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	roles := 0
	for _, y := range reg.Years {
		roles += len(reg.Roles[y.Value])
	}
	fmt.Printf("Registry validation passed. Found %d branches, %d years and %d roles.\n",
		len(reg.Branches), len(reg.Years), roles)
	return nil
}

// saveRegistry handles saving the registry to file
func saveRegistry(reg *registry.FormRegistry, path string) error {
	if err := reg.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func help(w io.Writer) {
	fmt.Fprint(w, `
Usage: portal-admin <command> [flags]

Commands:
  export    Write all applications to an Excel workbook
  stats     Print application counts
  add-role  Add a selectable role for a year to the form registry
  validate  Validate the form registry file
  help      Show this help message

Examples:
  portal-admin export -out exports/acm_applications.xlsx
  portal-admin stats -submitted
  portal-admin add-role -year 2 -role "Editorial Team"
  portal-admin validate -path configs/form-registry.json

Use 'portal-admin <command> -h' for more information about a command.
`)
}
