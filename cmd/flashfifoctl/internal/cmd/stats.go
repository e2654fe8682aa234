package cmd

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/flashfifo/nor/logger"
)

var mysqlDSN string

// addStatsCommands wires `stats push`, an optional telemetry sink for
// fleets that centralize FIFO occupancy monitoring outside of any single
// flashfifoctl invocation's own stdout.
func addStatsCommands(parent *cobra.Command) {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Push region occupancy telemetry to an external sink",
	}

	pushCmd := &cobra.Command{
		Use:   "push",
		Short: "Write one (fifo_id, used_bytes, free_bytes, ts) row to MySQL",
		Args:  cobra.NoArgs,
		RunE:  runStatsPush,
	}
	pushCmd.Flags().StringVar(&mysqlDSN, "mysql-dsn", "", "go-sql-driver/mysql DSN, e.g. user:pass@tcp(host:3306)/db")

	statsCmd.AddCommand(pushCmd)
	parent.AddCommand(statsCmd)
}

func runStatsPush(cmd *cobra.Command, args []string) error {
	if mysqlDSN == "" {
		return errors.New("stats push: --mysql-dsn is required")
	}

	h, port, err := openHandle()
	if err != nil {
		return err
	}
	defer closeHandle(h, port)

	used := h.Size()
	free := h.FreeSpace()

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return errors.Annotate(err, "stats push: opening mysql connection")
	}
	defer db.Close()

	const createTable = `CREATE TABLE IF NOT EXISTS flashfifo_stats (
		fifo_id VARCHAR(64) NOT NULL,
		used_bytes INT NOT NULL,
		free_bytes INT NOT NULL,
		recorded_at DATETIME NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		return errors.Annotate(err, "stats push: ensuring table exists")
	}

	const insert = `INSERT INTO flashfifo_stats (fifo_id, used_bytes, free_bytes, recorded_at) VALUES (?, ?, ?, ?)`
	if _, err := db.Exec(insert, flashPath, used, free, time.Now()); err != nil {
		return errors.Annotate(err, "stats push: inserting row")
	}

	logger.Infof("stats push: recorded used=%d free=%d for %s", used, free, flashPath)
	cmd.Printf("pushed stats: used=%d free=%d\n", used, free)
	return nil
}
