package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"sales-records/internal/domain/customer"
	"sales-records/internal/domain/sale"
	"sales-records/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

type CollectionKind int

const (
	Customers CollectionKind = iota
	Sales
)

type Options struct {
	Schema        Schema
	MinCustomerID int64
	MinSaleID     int64
	Categories    sale.Categories
}

func DefaultOptions() Options {
	return Options{
		Schema:        DefaultSchema(),
		MinCustomerID: customer.MinID,
		MinSaleID:     sale.MinID,
	}
}

type collection[T any] struct {
	columns []string
	records []*T
}

// LoadReport describes what a Load put in memory. A collection that failed to
// load is absent, which is different from present with zero records.
type LoadReport struct {
	CustomersLoaded bool
	SalesLoaded     bool
	Customers       int
	Sales           int
	Warnings        []string
}

// Store holds the customer and sale collections of one session. It is not safe
// for concurrent use.
type Store struct {
	repo   TableRepository
	opts   Options
	logger *slog.Logger

	// nil means absent
	customers *collection[customer.Customer]
	sales     *collection[sale.Sale]

	// highest customer id ever present this session
	customerHighWater int64
	nextSaleID        int64
}

func NewStore(repo TableRepository, opts Options, logger *slog.Logger) *Store {
	if repo == nil {
		panic("table repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewStore, using default stderr handler")
	}
	if opts.MinCustomerID <= 0 {
		opts.MinCustomerID = customer.MinID
	}
	if opts.MinSaleID <= 0 {
		opts.MinSaleID = sale.MinID
	}

	return &Store{
		repo:       repo,
		opts:       opts,
		logger:     logger.With(slog.String("component", "recordStore")),
		nextSaleID: opts.MinSaleID,
	}
}

func (s *Store) Has(kind CollectionKind) bool {
	switch kind {
	case Customers:
		return s.customers != nil
	case Sales:
		return s.sales != nil
	}
	return false
}

func (s *Store) Counts() (customers, sales int) {
	if s.customers != nil {
		customers = len(s.customers.records)
	}
	if s.sales != nil {
		sales = len(s.sales.records)
	}
	return customers, sales
}

// Columns returns the header the collection will be saved with, or nil if absent.
func (s *Store) Columns(kind CollectionKind) []string {
	switch kind {
	case Customers:
		if s.customers != nil {
			return slices.Clone(s.customers.columns)
		}
	case Sales:
		if s.sales != nil {
			return slices.Clone(s.sales.columns)
		}
	}
	return nil
}

// Load replaces all in-memory state with the contents of the two files. Each file
// is loaded independently; the returned error joins the failures of both.
func (s *Store) Load(ctx context.Context, customerPath, salesPath string) (*LoadReport, error) {
	s.logger.InfoContext(ctx, "Loading records",
		slog.String("customers_path", customerPath), slog.String("sales_path", salesPath))

	s.customers = nil
	s.sales = nil
	report := &LoadReport{}
	var errs []error

	if table, err := s.readTable(ctx, customerPath); err != nil {
		errs = append(errs, err)
	} else if custs, err := s.opts.Schema.Customers.decode(customerPath, table); err != nil {
		s.logger.WarnContext(ctx, "Customer file rejected", slog.Any("error", err))
		errs = append(errs, err)
	} else {
		s.customers = &collection[customer.Customer]{
			columns: columnsFor(table.Header, s.opts.Schema.Customers.typed()),
			records: custs,
		}
		for _, c := range custs {
			s.customerHighWater = max(s.customerHighWater, c.ID)
		}
		report.CustomersLoaded = true
		report.Customers = len(custs)
		warnIfEmpty(report, customerPath, len(custs))
	}

	if table, err := s.readTable(ctx, salesPath); err != nil {
		errs = append(errs, err)
	} else if sales, err := s.opts.Schema.Sales.decode(salesPath, table); err != nil {
		s.logger.WarnContext(ctx, "Sales file rejected", slog.Any("error", err))
		errs = append(errs, err)
	} else {
		s.sales = &collection[sale.Sale]{
			columns: columnsFor(table.Header, s.opts.Schema.Sales.typed()),
			records: sales,
		}
		for _, sl := range sales {
			s.nextSaleID = max(s.nextSaleID, sl.ID+1)
		}
		report.SalesLoaded = true
		report.Sales = len(sales)
		warnIfEmpty(report, salesPath, len(sales))
	}

	if s.customers != nil && s.sales != nil {
		dangling := 0
		for _, sl := range s.sales.records {
			if s.customerIndex(sl.CustomerID) < 0 {
				dangling++
			}
		}
		if dangling > 0 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%d sales reference customers not present in %s", dangling, customerPath))
		}
	}

	for _, w := range report.Warnings {
		s.logger.WarnContext(ctx, w)
	}
	s.logger.InfoContext(ctx, "Load finished",
		slog.Int("customers", report.Customers),
		slog.Int("sales", report.Sales),
		slog.Int("errors", len(errs)))

	return report, errors.Join(errs...)
}

func (s *Store) readTable(ctx context.Context, path string) (*Table, error) {
	table, err := s.repo.Read(ctx, path)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read file", slog.String("path", path), slog.Any("error", err))
		return nil, err
	}
	return table, nil
}

func warnIfEmpty(report *LoadReport, path string, n int) {
	if n == 0 {
		report.Warnings = append(report.Warnings, fmt.Sprintf("no valid records found in %s", path))
	}
}

// Save writes one collection to path. An existing file is only replaced when
// confirm agrees; a nil confirm never replaces. Returns the number of records written.
func (s *Store) Save(ctx context.Context, path string, kind CollectionKind, confirm OverwriteConfirmer) (int, error) {
	logger := s.logger.With(slog.String("collection", kind.String()), slog.String("path", path))
	logger.InfoContext(ctx, "Attempting to save collection")

	var table *Table
	switch kind {
	case Customers:
		if s.customers != nil {
			table = s.opts.Schema.Customers.encode(s.customers.columns, s.customers.records)
		}
	case Sales:
		if s.sales != nil {
			table = s.opts.Schema.Sales.encode(s.sales.columns, s.sales.records)
		}
	}
	if table == nil {
		logger.WarnContext(ctx, "Nothing to save, collection absent")
		return 0, fmt.Errorf("%w: no %s data to save", apperrors.ErrNoData, kind)
	}

	exists, err := s.repo.Exists(path)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to check destination", slog.Any("error", err))
		return 0, err
	}
	if exists && (confirm == nil || !confirm.ConfirmOverwrite(path)) {
		logger.InfoContext(ctx, "Overwrite declined")
		return 0, fmt.Errorf("%w: %s was not overwritten", apperrors.ErrCancelled, path)
	}

	if err := s.repo.Write(ctx, path, table); err != nil {
		logger.ErrorContext(ctx, "Repository failed to write collection", slog.Any("error", err))
		return 0, err
	}

	logger.InfoContext(ctx, "Successfully saved collection", slog.Int("count", len(table.Rows)))
	return len(table.Rows), nil
}

func (s *Store) AddCustomer(ctx context.Context, name, postcode, phone string) (customer.Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to add customer")

	cust, err := customer.NewCustomer(name, postcode, phone)
	if err != nil {
		s.logger.WarnContext(ctx, "Validation failed", slog.Any("error", err))
		return customer.Customer{}, err
	}

	if s.customers == nil {
		s.customers = &collection[customer.Customer]{columns: s.opts.Schema.Customers.typed()}
	}

	cust.ID = s.nextCustomerID()
	s.customers.records = append(s.customers.records, cust)
	s.customerHighWater = max(s.customerHighWater, cust.ID)

	s.logger.InfoContext(ctx, "Customer added", slog.Int64("customerID", cust.ID))
	return cust.Clone(), nil
}

// nextCustomerID is one past the highest id seen this session (never below the
// minimum), probing upward past any collision.
func (s *Store) nextCustomerID() int64 {
	id := max(s.opts.MinCustomerID, s.customerHighWater+1)
	for _, c := range s.customers.records {
		id = max(id, c.ID+1)
	}
	for s.customerIndex(id) >= 0 {
		id++
	}
	return id
}

func (s *Store) AddSale(ctx context.Context, customerID int64, date, category string, value decimal.Decimal) (sale.Sale, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.InfoContext(ctx, "Attempting to add sale")

	if s.customerIndex(customerID) < 0 {
		logger.WarnContext(ctx, "Customer not found")
		return sale.Sale{}, fmt.Errorf("%w: %d", apperrors.ErrCustomerNotFound, customerID)
	}
	resolved, err := s.opts.Categories.Resolve(category)
	if err != nil {
		logger.WarnContext(ctx, "Validation failed", slog.Any("error", err))
		return sale.Sale{}, err
	}

	if s.sales == nil {
		s.sales = &collection[sale.Sale]{columns: s.opts.Schema.Sales.typed()}
	}

	sl := sale.NewSale(customerID, date, resolved, value)
	id := s.nextSaleID
	for s.saleIndex(id) >= 0 {
		id++
	}
	sl.ID = id
	s.nextSaleID = id + 1
	s.sales.records = append(s.sales.records, sl)

	logger.InfoContext(ctx, "Sale added", slog.Int64("saleID", sl.ID))
	return sl.Clone(), nil
}

func (s *Store) Customer(ctx context.Context, customerID int64) (customer.Customer, error) {
	i := s.customerIndex(customerID)
	if i < 0 {
		return customer.Customer{}, fmt.Errorf("%w: %d", apperrors.ErrCustomerNotFound, customerID)
	}
	return s.customers.records[i].Clone(), nil
}

func (s *Store) SearchCustomers(ctx context.Context, pred customer.Predicate) []customer.Customer {
	var out []customer.Customer
	if s.customers != nil {
		for _, c := range s.customers.records {
			if pred(*c) {
				out = append(out, c.Clone())
			}
		}
	}
	s.logger.DebugContext(ctx, "Searched customers", slog.Int("matches", len(out)))
	return out
}

func (s *Store) SearchSales(ctx context.Context, pred sale.Predicate) []sale.Sale {
	var out []sale.Sale
	if s.sales != nil {
		for _, sl := range s.sales.records {
			if pred(*sl) {
				out = append(out, sl.Clone())
			}
		}
	}
	s.logger.DebugContext(ctx, "Searched sales", slog.Int("matches", len(out)))
	return out
}

func (s *Store) ListSalesForCustomer(ctx context.Context, customerID int64) ([]sale.Sale, error) {
	if s.customerIndex(customerID) < 0 {
		s.logger.WarnContext(ctx, "Customer not found", slog.Int64("customerID", customerID))
		return nil, fmt.Errorf("%w: %d", apperrors.ErrCustomerNotFound, customerID)
	}
	return s.SearchSales(ctx, sale.ForCustomer(customerID)), nil
}

func (s *Store) DeleteSale(ctx context.Context, saleID int64) (sale.Sale, error) {
	i := s.saleIndex(saleID)
	if i < 0 {
		s.logger.WarnContext(ctx, "Sale not found", slog.Int64("saleID", saleID))
		return sale.Sale{}, fmt.Errorf("%w: %d", apperrors.ErrSaleNotFound, saleID)
	}
	removed := s.sales.records[i]
	s.sales.records = slices.Delete(s.sales.records, i, i+1)

	s.logger.InfoContext(ctx, "Sale deleted", slog.Int64("saleID", saleID))
	return removed.Clone(), nil
}

// DeleteCustomer removes the customer together with every sale that references it
// and reports how many sales went with it.
func (s *Store) DeleteCustomer(ctx context.Context, customerID int64) (customer.Customer, int, error) {
	i := s.customerIndex(customerID)
	if i < 0 {
		s.logger.WarnContext(ctx, "Customer not found", slog.Int64("customerID", customerID))
		return customer.Customer{}, 0, fmt.Errorf("%w: %d", apperrors.ErrCustomerNotFound, customerID)
	}

	removed := s.customers.records[i]
	customers := slices.Delete(slices.Clone(s.customers.records), i, i+1)

	var sales []*sale.Sale
	dropped := 0
	if s.sales != nil {
		sales = make([]*sale.Sale, 0, len(s.sales.records))
		for _, sl := range s.sales.records {
			if sl.CustomerID == customerID {
				dropped++
				continue
			}
			sales = append(sales, sl)
		}
	}

	s.customers.records = customers
	if s.sales != nil {
		s.sales.records = sales
	}

	s.logger.InfoContext(ctx, "Customer deleted",
		slog.Int64("customerID", customerID), slog.Int("sales_removed", dropped))
	return removed.Clone(), dropped, nil
}

func (s *Store) customerIndex(id int64) int {
	if s.customers == nil {
		return -1
	}
	return slices.IndexFunc(s.customers.records, func(c *customer.Customer) bool { return c.ID == id })
}

func (s *Store) saleIndex(id int64) int {
	if s.sales == nil {
		return -1
	}
	return slices.IndexFunc(s.sales.records, func(sl *sale.Sale) bool { return sl.ID == id })
}
