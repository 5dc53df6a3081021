package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/route-search-service/internal/domain"
	"github.com/route-search-service/internal/domain/repository"
)

type catalogueWriter struct {
	db     *DB
	logger *zap.Logger
}

// NewCatalogueWriter создает writer для импорта каталога
func NewCatalogueWriter(db *DB) repository.CatalogueWriter {
	return &catalogueWriter{
		db:     db,
		logger: db.logger,
	}
}

type routeInsert struct {
	domain.Amenity
	ID                int64           `db:"id"`
	Origin            string          `db:"origin"`
	Destination       string          `db:"destination"`
	Price             decimal.Decimal `db:"price"`
	ReturnTicketPrice decimal.Decimal `db:"return_ticket_price"`
	OperatorID        *int64          `db:"operator_id"`
}

// ImportCatalogue upserts operators and stations and replaces every route of
// the (origin, destination) pairs present in catalogue.
func (w *catalogueWriter) ImportCatalogue(ctx context.Context, catalogue *domain.Catalogue) error {
	for _, route := range catalogue.Routes {
		for _, s := range route.Schedules {
			if err := s.Validate(); err != nil {
				return err
			}
		}
	}

	err := w.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, op := range catalogue.Operators {
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO operators (id, name) VALUES (:id, :name)
				ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
			`, op); err != nil {
				return fmt.Errorf("upsert operator %d: %w", op.ID, err)
			}
		}

		for _, st := range catalogue.Stations {
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO stations (id, name, city) VALUES (:id, :name, :city)
				ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, city = EXCLUDED.city
			`, st); err != nil {
				return fmt.Errorf("upsert station %d: %w", st.ID, err)
			}
		}

		seen := make(map[[2]string]struct{})
		for _, route := range catalogue.Routes {
			pair := [2]string{route.Origin, route.Destination}
			if _, ok := seen[pair]; ok {
				continue
			}
			seen[pair] = struct{}{}
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM routes WHERE origin = $1 AND destination = $2`,
				route.Origin, route.Destination,
			); err != nil {
				return fmt.Errorf("delete routes %s-%s: %w", route.Origin, route.Destination, err)
			}
		}

		for _, route := range catalogue.Routes {
			if err := insertRoute(ctx, tx, route); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		w.logger.Error("Catalogue import failed", zap.Error(err))
		return err
	}

	w.logger.Info("Catalogue imported",
		zap.Int("operators", len(catalogue.Operators)),
		zap.Int("stations", len(catalogue.Stations)),
		zap.Int("routes", len(catalogue.Routes)))
	return nil
}

func insertRoute(ctx context.Context, tx *sqlx.Tx, route *domain.Route) error {
	row := routeInsert{
		Amenity:           route.Amenity,
		ID:                route.ID,
		Origin:            route.Origin,
		Destination:       route.Destination,
		Price:             route.Price,
		ReturnTicketPrice: route.ReturnTicketPrice,
	}
	if route.Operator != nil {
		id := route.Operator.ID
		row.OperatorID = &id
	}

	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO routes (
			id, origin, destination, price, return_ticket_price, operator_id,
			seat_count, luggage_capacity, has_wifi, has_air_conditioning, has_power_outlets, has_restroom
		) VALUES (
			:id, :origin, :destination, :price, :return_ticket_price, :operator_id,
			:seat_count, :luggage_capacity, :has_wifi, :has_air_conditioning, :has_power_outlets, :has_restroom
		)
	`, row); err != nil {
		return fmt.Errorf("insert route %d: %w", route.ID, err)
	}

	for _, s := range route.Schedules {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schedules (id, route_id, valid_from, valid_to) VALUES ($1, $2, $3, $4)`,
			s.ID, route.ID, domain.DateOf(s.ValidFrom), domain.DateOf(s.ValidTo),
		); err != nil {
			return fmt.Errorf("insert schedule %d: %w", s.ID, err)
		}

		for _, d := range s.ExceptionDays {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO schedule_exception_days (schedule_id, exception_date) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`,
				s.ID, domain.DateOf(d),
			); err != nil {
				return fmt.Errorf("insert exception day for schedule %d: %w", s.ID, err)
			}
		}

		for _, st := range s.ScheduleTimes {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO schedule_times (
					id, schedule_id, departure_time, arrival_time,
					is_weekday, is_saturday, is_sunday, is_holiday
				) VALUES ($1, $2, $3::time, $4::time, $5, $6, $7, $8)
			`, st.ID, s.ID, st.DepartureTime, st.ArrivalTime,
				st.IsWeekday, st.IsSaturday, st.IsSunday, st.IsHoliday,
			); err != nil {
				return fmt.Errorf("insert schedule time %d: %w", st.ID, err)
			}

			for _, ss := range st.Stations {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO schedule_stations (
						id, schedule_time_id, station_id, arrival_time, distance_from_previous_stop
					) VALUES ($1, $2, $3, $4::time, $5)
				`, ss.ID, st.ID, ss.StationID(), ss.ArrivalTime, ss.DistanceFromPreviousStop,
				); err != nil {
					return fmt.Errorf("insert schedule station %d: %w", ss.ID, err)
				}
			}
		}
	}

	return nil
}
