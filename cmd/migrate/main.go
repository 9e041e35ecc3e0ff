package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/elskow/notekeep/internal/migration"
	"github.com/elskow/notekeep/internal/server"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate [up|down|status|version|reset]")
		fmt.Fprintln(flag.CommandLine.Output(), "defaults to status when no command is given")
	}
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "status"
	}

	if os.Getenv("APP_ENV") == "" {
		os.Setenv("APP_ENV", "development")
	}

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	migrator, err := migration.NewMigrator(&cfg.Database)
	if err != nil {
		log.Fatalf("open migrator: %v", err)
	}
	defer migrator.Close()

	if err := run(migrator, command); err != nil {
		log.Fatal(err)
	}
}

func run(m *migration.Migrator, command string) error {
	switch command {
	case "up":
		if err := m.Up(); err != nil {
			return err
		}
		log.Println("schema is up to date")

	case "down":
		if err := m.Down(); err != nil {
			return err
		}
		log.Println("rolled back one migration")

	case "status":
		return m.Status()

	case "version":
		current, err := m.Version()
		if err != nil {
			return err
		}
		latest, err := m.LatestVersion()
		if err != nil {
			return err
		}
		log.Printf("database at version %d, latest available %d", current, latest)

	case "reset":
		if err := m.Reset(); err != nil {
			return err
		}
		log.Println("schema rebuilt from scratch")

	default:
		return fmt.Errorf("unknown command %q", command)
	}

	return nil
}
