package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/axisni/chartdash/app/charts"
	"github.com/axisni/chartdash/app/config"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// OpenSQL connects to a SQL database. driver is sqlite, postgres or mysql.
func OpenSQL(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error
	switch driver {
	case "sqlite":
		db, err = NewSQLiteDB(dsn)
	case "postgres", "mysql":
		slog.Info("opening SQL DB", "driver", driver)
		db, err = sqlx.Open(driver, dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", driver, err)
	}
	return db, nil
}

func OpenMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetConnectTimeout(10 * time.Second))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return client, nil
}

// NewChartStore builds and initializes the chart store named by conf.
// remote serves the "remote" driver. The returned close function releases
// the underlying connection.
func NewChartStore(ctx context.Context, conf config.ChartStoreConfig, remote charts.RemoteChartAPI) (charts.ChartStore, func() error, error) {
	var store charts.ChartStore
	closeFn := func() error { return nil }

	switch conf.Driver {
	case "remote":
		store = charts.NewRemoteChartStore(remote)
	case "mongo":
		client, err := OpenMongo(ctx, conf.DSN)
		if err != nil {
			return nil, nil, err
		}
		store = charts.NewMongoChartStore(client.Database(conf.Database))
		closeFn = func() error { return client.Disconnect(context.Background()) }
	default:
		db, err := OpenSQL(ctx, conf.Driver, conf.DSN)
		if err != nil {
			return nil, nil, err
		}
		store = charts.NewSQLChartStore(db)
		closeFn = db.Close
	}

	if err := store.Init(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("initializing %s chart store: %w", conf.Driver, err)
	}
	slog.Info("chart store ready", "driver", conf.Driver)
	return store, closeFn, nil
}
