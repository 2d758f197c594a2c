package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/mateusmacedo/go-railway/internal/bootstrap"
	"github.com/mateusmacedo/go-railway/internal/config"
	"github.com/mateusmacedo/go-railway/internal/identity"
	"github.com/mateusmacedo/go-railway/internal/train/application"
	"github.com/mateusmacedo/go-railway/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-railway/pkg/infrastructure"
	zapAdapter "github.com/mateusmacedo/go-railway/pkg/infrastructure/zaplogger/adapter"
)

var sampleTrains = []application.CreateTrainData{
	{Name: "Rajdhani Express", Number: "12001", Source: "Mumbai", Destination: "Delhi", DepartureTime: "16:35", ArrivalTime: "08:10", TotalSeats: 100, Price: 2500},
	{Name: "Shatabdi Express", Number: "12002", Source: "Delhi", Destination: "Mumbai", DepartureTime: "17:15", ArrivalTime: "09:45", TotalSeats: 80, Price: 2200},
	{Name: "Duronto Express", Number: "12003", Source: "Bangalore", Destination: "Chennai", DepartureTime: "06:00", ArrivalTime: "12:30", TotalSeats: 120, Price: 800},
	{Name: "Garib Rath", Number: "12004", Source: "Chennai", Destination: "Bangalore", DepartureTime: "22:30", ArrivalTime: "05:15", TotalSeats: 150, Price: 600},
	{Name: "Jan Shatabdi", Number: "12005", Source: "Kolkata", Destination: "Hyderabad", DepartureTime: "14:20", ArrivalTime: "11:45", TotalSeats: 90, Price: 1800},
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var (
		driver       string
		dsn          string
		logLevel     string
		skipExisting bool
		timeout      time.Duration
	)

	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVar(&driver, "driver", config.StorePostgres, "store driver: postgres, or memory for a dry run (nothing is kept after exit)")
	flagSet.StringVar(&dsn, "dsn", os.Getenv("DATABASE_DSN"), "postgres DSN (default $DATABASE_DSN)")
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level")
	flagSet.BoolVar(&skipExisting, "skip-existing", true, "ignore trains whose number already exists")
	flagSet.DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg := config.Config{AppName: "railway-seed", StoreDriver: driver, DatabaseDSN: dsn}
	if driver != config.StoreMemory && driver != config.StorePostgres {
		return fmt.Errorf("unknown driver %q", driver)
	}
	if driver == config.StorePostgres && dsn == "" {
		return errors.New("--dsn or DATABASE_DSN is required for postgres")
	}

	if driver == config.StoreMemory {
		fmt.Fprintln(out, "dry run: memory store is discarded on exit")
	}

	logger, err := zapAdapter.NewZapAppLogger(cfg.AppName, logLevel)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	bus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CreateTrainData], application.CreateTrainData, domain.Train](logger)
	bus.RegisterHandler(application.CreateTrainCommand, application.NewCreateTrainHandler(stores.Trains, pkgInfra.GenerateUUID, time.Now, logger))

	created, skipped, err := seed(ctx, bus, sampleTrains, skipExisting, logger)
	fmt.Fprintf(out, "trains created: %d, skipped: %d\n", created, skipped)
	return err
}

// seed cadastra os trens pelo mesmo comando usado pela API administrativa.
func seed(ctx context.Context, bus application.CreateTrainBus, trains []application.CreateTrainData, skipExisting bool, logger pkgApp.AppLogger) (created, skipped int, err error) {
	operator := identity.Identity{UserID: "seed", Name: "seed", IsAdmin: true}

	for _, data := range trains {
		data.Requester = operator
		train, err := bus.Dispatch(ctx, application.NewCreateTrainCommand(data))
		switch {
		case err == nil:
			created++
			pkgApp.LogInfo(ctx, logger, "train seeded", map[string]interface{}{"train_id": train.ID, "number": train.Number})
		case skipExisting && errors.Is(err, pkgDomain.ErrConflict):
			skipped++
		default:
			return created, skipped, fmt.Errorf("seed train %s: %w", data.Number, err)
		}
	}
	return created, skipped, nil
}
