// Command admin runs operator tasks against the bankdesk database.
//
//	admin migrate
//	admin seed-bank -name SBI -manager Ankit -password sbi123 [-email ankit@sbi.in] [-phone 9000000001]
//	admin hash-password -password secret [-cost 10]
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/josh-kwaku/bankdesk/internal/cache"
	"github.com/josh-kwaku/bankdesk/internal/config"
	"github.com/josh-kwaku/bankdesk/internal/logging"
	"github.com/josh-kwaku/bankdesk/internal/repository"
	"github.com/josh-kwaku/bankdesk/internal/service"
	"github.com/josh-kwaku/bankdesk/migrations"
)

var errUsage = errors.New("usage: admin <migrate|seed-bank|hash-password> [flags]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("admin command failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}

	switch args[0] {
	case "hash-password":
		return hashPassword(args[1:], stdout)
	case "migrate", "seed-bank":
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Init("bankdesk-admin", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logging.WithLogger(ctx, logger)

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns: 2,
		MaxIdleConns: 1,
	}, 10)
	if err != nil {
		return err
	}
	defer db.Close()

	if args[0] == "migrate" {
		return migrate(ctx, db, logger)
	}
	return seedBank(ctx, db, cfg, args[1:], stdout)
}

func migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	applied, err := repository.Migrate(ctx, db, migrations.FS)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		logger.Info("schema up to date")
		return nil
	}
	logger.Info("migrations applied", "versions", applied)
	return nil
}

type seedBankFlags struct {
	bank     string
	manager  string
	password string
	email    string
	phone    string
}

func parseSeedBank(args []string) (seedBankFlags, error) {
	var f seedBankFlags
	fs := flag.NewFlagSet("seed-bank", flag.ContinueOnError)
	fs.StringVar(&f.bank, "name", "", "bank name (required)")
	fs.StringVar(&f.manager, "manager", "", "manager name (required)")
	fs.StringVar(&f.password, "password", "", "manager password (required)")
	fs.StringVar(&f.email, "email", "", "manager email (default <manager>@<bank>.local)")
	fs.StringVar(&f.phone, "phone", "", "manager phone (default derived from the bank name)")
	if err := fs.Parse(args); err != nil {
		return f, err
	}

	if f.bank == "" || f.manager == "" || f.password == "" {
		return f, errors.New("seed-bank: -name, -manager and -password are required")
	}
	if f.email == "" {
		f.email = fmt.Sprintf("%s@%s.local", strings.ToLower(f.manager), strings.ToLower(f.bank))
	}
	if f.phone == "" {
		// Phones are unique across users; the suffix keeps "SBI" and "sbi" apart.
		f.phone = "mgr-" + strings.ToLower(f.bank) + "-" + uuid.NewString()[:8]
	}
	return f, nil
}

func seedBank(ctx context.Context, db *sql.DB, cfg *config.Config, args []string, stdout io.Writer) error {
	f, err := parseSeedBank(args)
	if err != nil {
		return err
	}

	bankRepo := repository.NewBankRepository(db)
	userRepo := repository.NewUserRepository(db)
	var banksCache service.BankCache
	if cfg.RedisAddr != "" {
		// The API caches the bank list; evict it so the new bank shows up.
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		banksCache = cache.NewBankCache(rdb, cfg.BankCacheTTL)
	}
	banks := service.NewBankService(bankRepo, userRepo, banksCache, db, cfg.BcryptCost)
	bank, manager, err := banks.CreateWithManager(ctx, service.CreateBankInput{
		BankName:        f.bank,
		ManagerName:     f.manager,
		ManagerEmail:    f.email,
		ManagerPhone:    f.phone,
		ManagerPassword: f.password,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "bank %s (%s) managed by %s (%s)\n", bank.Name, bank.ID, manager.Name, manager.ID)
	return nil
}

func hashPassword(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	password := fs.String("password", "", "plaintext password (required)")
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		return errors.New("hash-password: -password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), *cost)
	if err != nil {
		return fmt.Errorf("hash-password: %w", err)
	}
	fmt.Fprintln(stdout, string(hash))
	return nil
}
