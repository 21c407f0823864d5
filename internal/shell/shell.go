package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"sales-records/internal/domain/customer"
	"sales-records/internal/domain/records"
	"sales-records/internal/domain/sale"
	"sales-records/internal/pkg/apperrors"
)

type Options struct {
	// CustomersFile and SalesFile are used by the load item instead of asking.
	CustomersFile string
	SalesFile     string
	// Categories, when set, restricts the category answer when adding a sale.
	Categories []string
}

type menuItem struct {
	label string
	run   func(ctx context.Context) error
}

// Shell is the interactive menu over a record store.
type Shell struct {
	store  *records.Store
	prompt *Prompter
	view   *view
	opts   Options
	logger *slog.Logger
	items  []menuItem

	// confirmErr keeps an input failure seen while asking to overwrite,
	// since the confirmer can only answer yes or no.
	confirmErr error
}

var _ records.OverwriteConfirmer = (*Shell)(nil)

func New(store *records.Store, in io.Reader, out io.Writer, opts Options, logger *slog.Logger) *Shell {
	if store == nil {
		panic("record store cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}

	s := &Shell{
		store:  store,
		prompt: NewPrompter(in, out),
		view:   newView(out),
		opts:   opts,
		logger: logger.With(slog.String("component", "shell")),
	}
	s.items = []menuItem{
		{"Load customer and sales records", s.load},
		{"Save customer records", func(ctx context.Context) error { return s.save(ctx, records.Customers) }},
		{"Save sales records", func(ctx context.Context) error { return s.save(ctx, records.Sales) }},
		{"Add new customer", s.addCustomer},
		{"Add new sales record (for existing customer)", s.addSale},
		{"Search customers", s.searchCustomers},
		{"Search sales records", s.searchSales},
		{"Display all sales for a customer", s.listSales},
		{"Delete a sale record with a given transaction id", s.deleteSale},
		{"Delete customer (and associated sales)", s.deleteCustomer},
		{"Quit", nil},
	}
	return s
}

// Run shows the menu until Quit is chosen or input ends. Errors from menu items
// are reported and the loop goes on; only a failure to read input is returned.
func (s *Shell) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Session started")
	defer s.logger.InfoContext(ctx, "Session ended")

	for {
		s.view.Menu(s.items, s.status())
		choice, err := s.prompt.Int("Enter your choice: ")
		if err != nil {
			return endOfInput(err)
		}
		if choice < 1 || int(choice) > len(s.items) {
			s.view.Notice("Invalid choice.")
			continue
		}

		item := s.items[choice-1]
		if item.run == nil {
			return nil
		}
		s.logger.DebugContext(ctx, "Menu item selected", slog.String("item", item.label))

		if err := item.run(ctx); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, errInput) {
				return endOfInput(err)
			}
			s.report(ctx, err)
		}
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Shell) status() string {
	part := func(kind records.CollectionKind, n int) string {
		if !s.store.Has(kind) {
			return fmt.Sprintf("%s: not loaded", kind)
		}
		return fmt.Sprintf("%s: %d", kind, n)
	}
	customers, sales := s.store.Counts()
	return part(records.Customers, customers) + " | " + part(records.Sales, sales)
}

func (s *Shell) report(ctx context.Context, err error) {
	switch apperrors.Kind(err) {
	case apperrors.ErrCancelled:
		s.view.Notice("Operation cancelled.")
	case apperrors.ErrValidation, apperrors.ErrNoData, apperrors.ErrCustomerNotFound, apperrors.ErrSaleNotFound:
		s.view.Warn("%v", err)
	default:
		s.logger.ErrorContext(ctx, "Operation failed", slog.Any("error", err))
		for _, line := range strings.Split(err.Error(), "\n") {
			s.view.Error("%s", line)
		}
	}
}

// ConfirmOverwrite asks before an existing file is replaced.
func (s *Shell) ConfirmOverwrite(path string) bool {
	ok, err := s.prompt.Confirm(fmt.Sprintf("File '%s' exists. Overwrite? (y/n): ", path))
	if err != nil {
		s.confirmErr = err
		return false
	}
	return ok
}

func (s *Shell) path(label, preset string) (string, error) {
	if preset != "" {
		return preset, nil
	}
	return s.prompt.String(label)
}

func (s *Shell) load(ctx context.Context) error {
	customersFile, err := s.path("Enter customer records file path: ", s.opts.CustomersFile)
	if err != nil {
		return err
	}
	salesFile, err := s.path("Enter sales records file path: ", s.opts.SalesFile)
	if err != nil {
		return err
	}

	report, err := s.store.Load(ctx, customersFile, salesFile)
	for _, w := range report.Warnings {
		s.view.Warn("%s", w)
	}
	if err != nil {
		s.report(ctx, err)
	}
	if report.CustomersLoaded && report.SalesLoaded {
		s.view.Success("Data loaded successfully. %d customers, %d sales.", report.Customers, report.Sales)
	}
	return nil
}

func (s *Shell) save(ctx context.Context, kind records.CollectionKind) error {
	label := "Enter file path to save customer records: "
	if kind == records.Sales {
		label = "Enter file path to save sale records: "
	}
	path, err := s.prompt.String(label)
	if err != nil {
		return err
	}

	s.confirmErr = nil
	n, err := s.store.Save(ctx, path, kind, s)
	if s.confirmErr != nil {
		return s.confirmErr
	}
	if err != nil {
		return err
	}
	s.view.Success("Saved %d %s to %s.", n, kind, path)
	return nil
}

func (s *Shell) addCustomer(ctx context.Context) error {
	name, err := s.prompt.String("Enter customer name: ")
	if err != nil {
		return err
	}
	postcode, err := s.prompt.String("Enter customer postcode (optional): ", Optional())
	if err != nil {
		return err
	}
	phone, err := s.prompt.String("Enter customer phone number (optional): ", Optional())
	if err != nil {
		return err
	}

	c, err := s.store.AddCustomer(ctx, name, postcode, phone)
	if err != nil {
		return err
	}
	s.view.Success("Customer added with ID: %d", c.ID)
	return nil
}

func (s *Shell) addSale(ctx context.Context) error {
	customerID, err := s.prompt.Int("Enter customer ID: ")
	if err != nil {
		return err
	}
	if _, err := s.store.Customer(ctx, customerID); err != nil {
		return err
	}

	date, err := s.prompt.String("Enter sale date: ")
	if err != nil {
		return err
	}
	categoryLabel := "Enter sale category: "
	var categoryOpts []PromptOption
	if len(s.opts.Categories) > 0 {
		categoryLabel = fmt.Sprintf("Enter sale category (%s): ", strings.Join(s.opts.Categories, "/"))
		categoryOpts = append(categoryOpts, Choices(s.opts.Categories...))
	}
	category, err := s.prompt.String(categoryLabel, categoryOpts...)
	if err != nil {
		return err
	}
	value, err := s.prompt.Decimal("Enter sale value: ")
	if err != nil {
		return err
	}

	sl, err := s.store.AddSale(ctx, customerID, date, category, value)
	if err != nil {
		return err
	}
	s.view.Success("Sale added with transaction ID: %d", sl.ID)
	return nil
}

func (s *Shell) requireLoaded(kind records.CollectionKind) error {
	if !s.store.Has(kind) {
		return fmt.Errorf("%w: no %s records loaded", apperrors.ErrNoData, kind)
	}
	return nil
}

func (s *Shell) searchCustomers(ctx context.Context) error {
	if err := s.requireLoaded(records.Customers); err != nil {
		return err
	}
	field, err := s.prompt.String("Search by (id/name/postcode/phone): ", Choices("id", "name", "postcode", "phone"))
	if err != nil {
		return err
	}

	var pred customer.Predicate
	if field == "id" {
		id, err := s.prompt.Int("Enter customer ID: ")
		if err != nil {
			return err
		}
		pred = customer.ByID(id)
	} else {
		query, err := s.prompt.String(fmt.Sprintf("Enter %s: ", field))
		if err != nil {
			return err
		}
		switch field {
		case "name":
			pred = customer.NameContains(query)
		case "postcode":
			pred = customer.ByPostcode(query)
		case "phone":
			pred = customer.ByPhone(query)
		}
	}

	found := s.store.SearchCustomers(ctx, pred)
	if len(found) == 0 {
		s.view.Notice("No matching customers.")
		return nil
	}
	s.view.Customers(found)
	return nil
}

func (s *Shell) searchSales(ctx context.Context) error {
	if err := s.requireLoaded(records.Sales); err != nil {
		return err
	}
	field, err := s.prompt.String("Search by (id/customer/date/category/min-value): ",
		Choices("id", "customer", "date", "category", "min-value"))
	if err != nil {
		return err
	}

	var pred sale.Predicate
	switch field {
	case "id", "customer":
		id, err := s.prompt.Int("Enter ID: ")
		if err != nil {
			return err
		}
		pred = sale.ByID(id)
		if field == "customer" {
			pred = sale.ForCustomer(id)
		}
	case "min-value":
		v, err := s.prompt.Decimal("Enter minimum value: ")
		if err != nil {
			return err
		}
		pred = sale.ValueAtLeast(v)
	default:
		query, err := s.prompt.String(fmt.Sprintf("Enter %s: ", field))
		if err != nil {
			return err
		}
		pred = sale.OnDate(query)
		if field == "category" {
			pred = sale.InCategory(query)
		}
	}

	found := s.store.SearchSales(ctx, pred)
	if len(found) == 0 {
		s.view.Notice("No matching sales.")
		return nil
	}
	s.view.Sales(found)
	return nil
}

func (s *Shell) listSales(ctx context.Context) error {
	id, err := s.prompt.Int("Enter customer ID: ")
	if err != nil {
		return err
	}
	sales, err := s.store.ListSalesForCustomer(ctx, id)
	if err != nil {
		return err
	}
	if len(sales) == 0 {
		s.view.Notice("Customer %d has no sales.", id)
		return nil
	}
	s.view.Sales(sales)
	return nil
}

func (s *Shell) deleteSale(ctx context.Context) error {
	id, err := s.prompt.Int("Enter transaction ID: ")
	if err != nil {
		return err
	}
	if _, err := s.store.DeleteSale(ctx, id); err != nil {
		return err
	}
	s.view.Success("Sale %d deleted.", id)
	return nil
}

func (s *Shell) deleteCustomer(ctx context.Context) error {
	id, err := s.prompt.Int("Enter customer ID: ")
	if err != nil {
		return err
	}
	c, err := s.store.Customer(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.prompt.Confirm(fmt.Sprintf("Delete customer %d (%s) and all their sales? (y/n): ", c.ID, c.Name))
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrCancelled
	}

	_, removed, err := s.store.DeleteCustomer(ctx, id)
	if err != nil {
		return err
	}
	s.view.Success("Customer %d deleted with %d associated sale(s).", id, removed)
	return nil
}
