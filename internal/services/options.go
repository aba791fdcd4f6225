package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/evaluate_formula"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/get_product"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/list_categories"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/list_columns"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/list_events"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/list_products"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/render_table"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/repo"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/repo/memstore"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/create_column"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/create_product"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/delete_column"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/delete_product"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/relay_events"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/update_cell"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/update_column"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/update_product"
	"github.com/light-bringer/markup-catalog/internal/config"
	"github.com/light-bringer/markup-catalog/internal/metrics"
	"github.com/light-bringer/markup-catalog/internal/pkg/clock"
	"github.com/light-bringer/markup-catalog/internal/pkg/committer"
	"github.com/light-bringer/markup-catalog/internal/pkg/display"
	"github.com/light-bringer/markup-catalog/internal/pkg/formula"
	formulagrpc "github.com/light-bringer/markup-catalog/internal/transport/grpc/formula"
	httptransport "github.com/light-bringer/markup-catalog/internal/transport/http"
	"github.com/light-bringer/markup-catalog/internal/transport/outbox"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient  *spanner.Client
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	CatalogHandler *httptransport.Handler
	FormulaHandler *formulagrpc.Handler
	Relay          *Relay
}

// stores bundles one persistence backend.
type stores struct {
	products contracts.ProductStore
	columns  contracts.ColumnStore
	events   contracts.EventLog
	queue    contracts.EventQueue
}

// Option customizes NewServiceOptions.
type Option func(*settings)

type settings struct {
	clock    clock.Clock
	registry *prometheus.Registry
}

// WithClock replaces the real clock.
func WithClock(clk clock.Clock) Option {
	return func(s *settings) { s.clock = clk }
}

// WithRegistry registers metrics on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *settings) { s.registry = reg }
}

// NewServiceOptions creates and wires up all application dependencies for
// the store driver selected in cfg.
func NewServiceOptions(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...Option) (*ServiceOptions, error) {
	set := &settings{clock: clock.NewRealClock()}
	for _, opt := range opts {
		opt(set)
	}
	if set.registry == nil {
		set.registry = prometheus.NewRegistry()
		set.registry.MustRegister(
			prometheus.NewGoCollector(),
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		)
	}
	clk := set.clock

	// 1. Create infrastructure components
	m := metrics.New(cfg.Metrics.Prefix, set.registry)
	evaluator := formula.NewEvaluator(
		formula.WithLogger(log.Named("formula")),
		formula.WithObserver(m.ObserveFormula),
	)
	formatter, err := display.NewFormatter(cfg.Catalog.DisplayLocale)
	if err != nil {
		return nil, err
	}

	svc := &ServiceOptions{
		Metrics:  m,
		Gatherer: set.registry,
	}

	// 2. Create stores
	var st stores
	switch cfg.Store.Driver {
	case config.DriverSpanner:
		client, err := spanner.NewClient(ctx, cfg.Store.SpannerDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		svc.SpannerClient = client

		comm := committer.NewCommitter(client)
		events := repo.NewEventLog(client)
		st = stores{
			products: repo.NewProductStore(client, comm),
			columns:  repo.NewColumnStore(client, comm, clk),
			events:   events,
			queue:    events,
		}
		log.Info("Using Spanner store", zap.String("database", cfg.Store.SpannerDatabase))
	default:
		mem := memstore.New(clk)
		st = stores{
			products: mem.Products(),
			columns:  mem.Columns(),
			events:   mem.Events(),
			queue:    mem.Queue(),
		}
		log.Info("Using in-memory store")
	}

	products := &instrumentedProducts{next: st.products, metrics: m}
	columns := &instrumentedColumns{next: st.columns, metrics: m}

	// 3. Create command use cases (write operations)
	cmd := httptransport.Commands{
		CreateProduct: create_product.NewInteractor(products, columns, clk),
		UpdateProduct: update_product.NewInteractor(products, columns, clk),
		UpdateCell:    update_cell.NewInteractor(products, columns, clk),
		DeleteProduct: delete_product.NewInteractor(products, clk),
		CreateColumn:  create_column.NewInteractor(columns, clk),
		UpdateColumn:  update_column.NewInteractor(columns, clk),
		DeleteColumn:  delete_column.NewInteractor(columns, clk),
	}

	// 4. Create query use cases (read operations)
	listProducts := list_products.NewQuery(products, cfg.Catalog.PageSize)
	evaluate := evaluate_formula.NewQuery(products, columns, evaluator)
	qry := httptransport.Queries{
		GetProduct:      get_product.NewQuery(products),
		ListProducts:    listProducts,
		ListCategories:  list_categories.NewQuery(products),
		ListColumns:     list_columns.NewQuery(columns),
		RenderTable:     render_table.NewQuery(listProducts, columns, evaluator, formatter),
		EvaluateFormula: evaluate,
		ListEvents:      list_events.NewQuery(st.events),
	}

	// 5. Create transport handlers
	svc.CatalogHandler = httptransport.NewHandler(cmd, qry, m)
	svc.FormulaHandler = formulagrpc.NewHandler(evaluate, log.Named("grpc"))

	// 6. Create the outbox relay
	relayLog := log.Named("outbox")
	svc.Relay = &Relay{
		interactor: relay_events.NewInteractor(st.queue, outbox.NewLogPublisher(relayLog), clk, cfg.Outbox.MaxRetries, relayLog),
		interval:   cfg.Outbox.RelayInterval,
		batchSize:  cfg.Outbox.BatchSize,
		metrics:    m,
		logger:     relayLog,
	}

	return svc, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
