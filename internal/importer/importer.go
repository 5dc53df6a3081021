package importer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/route-search-service/internal/domain"
	"github.com/route-search-service/internal/domain/repository"
)

// Summary - итог импорта каталога
type Summary struct {
	Operators     int
	Stations      int
	Routes        int
	Schedules     int
	ScheduleTimes int
	Pairs         int
	Published     int
}

// Importer записывает каталог и оповещает об изменённых парах пунктов
type Importer struct {
	writer  repository.CatalogueWriter
	streams repository.StreamRepository
	logger  *zap.Logger
	now     func() time.Time
}

// New creates an Importer. streams may be nil, then no events are published.
func New(writer repository.CatalogueWriter, streams repository.StreamRepository, logger *zap.Logger) *Importer {
	return &Importer{
		writer:  writer,
		streams: streams,
		logger:  logger,
		now:     time.Now,
	}
}

// Summarize counts the catalogue without writing it.
func Summarize(catalogue *domain.Catalogue) Summary {
	s := Summary{
		Operators: len(catalogue.Operators),
		Stations:  len(catalogue.Stations),
		Routes:    len(catalogue.Routes),
		Pairs:     len(Pairs(catalogue)),
	}
	for _, r := range catalogue.Routes {
		s.Schedules += len(r.Schedules)
		for _, sch := range r.Schedules {
			s.ScheduleTimes += len(sch.ScheduleTimes)
		}
	}
	return s
}

// Import writes the catalogue in one transaction and then publishes a
// CatalogueChangedEvent per distinct origin/destination pair.
// A publish failure is logged and does not fail the import.
func (i *Importer) Import(ctx context.Context, catalogue *domain.Catalogue) (Summary, error) {
	summary := Summarize(catalogue)

	start := time.Now()
	if err := i.writer.ImportCatalogue(ctx, catalogue); err != nil {
		return summary, fmt.Errorf("writing catalogue: %w", err)
	}

	i.logger.Info("Catalogue written",
		zap.Int("operators", summary.Operators),
		zap.Int("stations", summary.Stations),
		zap.Int("routes", summary.Routes),
		zap.Int("schedules", summary.Schedules),
		zap.Duration("duration", time.Since(start)))

	if i.streams == nil {
		return summary, nil
	}

	for _, pair := range Pairs(catalogue) {
		event := domain.NewCatalogueChangedEvent(pair.Origin, pair.Destination, i.now())
		if err := i.streams.PublishToStream(ctx, domain.StreamCatalogueChanged, event); err != nil {
			i.logger.Warn("Failed to publish catalogue change",
				zap.String("origin", pair.Origin),
				zap.String("destination", pair.Destination),
				zap.Error(err))
			continue
		}
		summary.Published++
	}

	return summary, nil
}

// Pair - пара пунктов отправления и назначения
type Pair struct {
	Origin      string
	Destination string
}

// Pairs returns distinct origin/destination pairs in route order.
func Pairs(catalogue *domain.Catalogue) []Pair {
	seen := map[Pair]bool{}
	var pairs []Pair
	for _, r := range catalogue.Routes {
		p := Pair{Origin: r.Origin, Destination: r.Destination}
		if seen[p] {
			continue
		}
		seen[p] = true
		pairs = append(pairs, p)
	}
	return pairs
}
