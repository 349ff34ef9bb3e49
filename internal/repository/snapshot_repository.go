package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"MBGate/internal/domain/models"
	"MBGate/internal/domain/repository"
	pkgch "MBGate/pkg/clickhouse"
)

// EventProducer publishes one keyed message. *kafka.Producer satisfies it.
type EventProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
}

// KafkaSnapshotPublisher implements SnapshotPublisher for Kafka. Messages are
// keyed by account id so one account's snapshots stay ordered.
type KafkaSnapshotPublisher struct {
	producer EventProducer
	topic    string
}

// NewKafkaSnapshotPublisher creates Kafka publisher.
func NewKafkaSnapshotPublisher(producer EventProducer, topic string) *KafkaSnapshotPublisher {
	return &KafkaSnapshotPublisher{producer: producer, topic: topic}
}

var _ repository.SnapshotPublisher = (*KafkaSnapshotPublisher)(nil)

func (p *KafkaSnapshotPublisher) Publish(ctx context.Context, s *models.PositionSnapshot) error {
	return p.producer.Publish(ctx, p.topic, []byte(s.AccountID), newSnapshotMessage(s))
}

// SnapshotTable is the ClickHouse table that holds position history.
const SnapshotTable = "position_snapshots"

const insertChunkSize = 1000

// execer is the subset of *sql.DB the storage uses.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	PingContext(ctx context.Context) error
}

// ClickHouseSnapshotStorage implements SnapshotStorage for ClickHouse with
// one row per position.
type ClickHouseSnapshotStorage struct {
	db    execer
	table string
}

// NewClickHouseSnapshotStorage creates ClickHouse storage in the client's database.
func NewClickHouseSnapshotStorage(ch *pkgch.Client) *ClickHouseSnapshotStorage {
	return newClickHouseSnapshotStorage(ch.DB(), ch.Database())
}

func newClickHouseSnapshotStorage(db execer, database string) *ClickHouseSnapshotStorage {
	table := SnapshotTable
	if database != "" {
		table = database + "." + SnapshotTable
	}
	return &ClickHouseSnapshotStorage{db: db, table: table}
}

var _ repository.SnapshotStorage = (*ClickHouseSnapshotStorage)(nil)

// Schema returns the DDL for the snapshot table.
func (s *ClickHouseSnapshotStorage) Schema() []string {
	return []string{fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            fetched_at  DateTime64(3, 'UTC'),
            account_id  String,
            start_date  Nullable(Date),
            end_date    Nullable(Date),
            position_id Int64,
            instrument  LowCardinality(String),
            category    LowCardinality(String),
            side        LowCardinality(String),
            qty         String,
            avg_price   Nullable(String)
        ) ENGINE = MergeTree
        ORDER BY (account_id, fetched_at, position_id)
    `, s.table)}
}

func (s *ClickHouseSnapshotStorage) Init(ctx context.Context) error {
	for _, stmt := range s.Schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init %s: %w", s.table, err)
		}
	}
	return nil
}

// Store inserts every position of s, chunked to bound statement size.
// A snapshot without positions writes nothing.
func (s *ClickHouseSnapshotStorage) Store(ctx context.Context, snap *models.PositionSnapshot) error {
	if snap == nil || len(snap.Positions) == 0 {
		return nil
	}

	fetchedAt := snap.FetchedAt.UTC()
	for start := 0; start < len(snap.Positions); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(snap.Positions) {
			end = len(snap.Positions)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*10)
		for _, p := range snap.Positions[start:end] {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				fetchedAt,
				snap.AccountID,
				optionalDate(snap.Range.Start),
				optionalDate(snap.Range.End),
				int64(p.ID),
				p.Instrument,
				p.Category,
				p.Side,
				p.Qty,
				optionalDecimal(p),
			)
		}

		q := fmt.Sprintf("INSERT INTO %s (fetched_at, account_id, start_date, end_date, position_id, instrument, category, side, qty, avg_price) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert %s: %w", s.table, err)
		}
	}
	return nil
}

func (s *ClickHouseSnapshotStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func optionalDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func optionalDecimal(p models.Position) interface{} {
	if !p.AvgPrice.Valid {
		return nil
	}
	return p.AvgPrice.Decimal.String()
}
