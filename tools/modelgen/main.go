// Command modelgen regenerates the gorm models under internal/adapter/repo/gorm/model
// from a migrated missioncore database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

// tables maps each migrated table to its model struct name.
var tables = []struct{ table, model string }{
	{"ecosystem_lineages", "EcosystemLineage"},
	{"ecosystem_states", "EcosystemState"},
	{"crew_states", "CrewState"},
	{"habitat_states", "HabitatState"},
	{"ledger_entries", "LedgerEntry"},
	{"domain_events", "DomainEvent"},
}

func main() {
	var dsn, out string
	flag.StringVar(&dsn, "dsn", os.Getenv("MISSIONCORE_DB_DSN"), "postgres dsn")
	flag.StringVar(&out, "out", "internal/adapter/repo/gorm/model", "output dir for generated models")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing --dsn or MISSIONCORE_DB_DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:      out,
		ModelPkgPath: "model",
		Mode:         gen.WithoutContext,
	})
	g.UseDB(db)
	// JSONB columns stay raw bytes; the repositories decode them into domain types.
	jsonb := []gen.ModelOpt{
		gen.FieldType("genomes", "[]byte"),
		gen.FieldType("state", "[]byte"),
		gen.FieldType("payload", "[]byte"),
	}
	// The repositories use plain gorm, so only model structs are generated.
	for _, t := range tables {
		g.GenerateModelAs(t.table, t.model, jsonb...)
	}
	g.Execute()

	fmt.Printf("generated %d gorm models at %s\n", len(tables), out)
}
