package postgres

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/chrisdamba/deliverymap/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) BulkCreate(ctx context.Context, orders []models.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, order := range orders {
		query := `
            INSERT INTO orders (id, branch_id, delivery_lat, delivery_long, order_date)
            VALUES ($1, $2, $3, $4, $5)
        `
		_, err = tx.Exec(ctx, query,
			order.ID,
			order.BranchID,
			nullFloat(order.Delivery.Lat),
			nullFloat(order.Delivery.Lon),
			nullTime(order.PlacedAt),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *OrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	query := `
        SELECT id, branch_id, delivery_lat, delivery_long, order_date
        FROM orders
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		var lat, lon sql.NullFloat64
		var placedAt sql.NullTime
		err := rows.Scan(&order.ID, &order.BranchID, &lat, &lon, &placedAt)
		if err != nil {
			return nil, err
		}
		order.Delivery = models.Location{Lat: floatOrNaN(lat), Lon: floatOrNaN(lon)}
		if placedAt.Valid {
			order.PlacedAt = placedAt.Time
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&count)
	return count, err
}

func (r *OrderRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE orders")
	return err
}

// NaN coordinates and zero timestamps are stored as NULL; they come back out
// as NaN and the zero time so the pipeline sees the same degraded values it
// would get from a CSV load.
func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
