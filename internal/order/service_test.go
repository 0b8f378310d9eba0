package order

import (
	"errors"
	"testing"

	"github.com/poopooshop/shop-backend/internal/product"
)

// recordingNotifier captures bills instead of sending mail.
type recordingNotifier struct {
	bills []Bill
	err   error
}

func (n *recordingNotifier) SendOrderConfirmation(b Bill) error {
	n.bills = append(n.bills, b)
	return n.err
}

func newTestService(notifier Notifier) (*Service, *InMemoryRepository, *product.Service) {
	products := product.NewService(product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "Cat Toy", Category: "toys", NewPrice: 500, OldPrice: 1000, Available: true},
		{ID: 2, Name: "Dog Ball", Category: "toys", NewPrice: 90, OldPrice: 100, Available: true},
	}))
	repo := NewInMemoryRepository(nil)
	return NewService(repo, products, notifier), repo, products
}

func validRequest() PlaceRequest {
	return PlaceRequest{
		Email:       "jane@example.com",
		WhatsApp:    "+15550001111",
		PhoneNumber: "+15550002222",
		FirstName:   "Jane",
		LastName:    "Doe",
		City:        "Colombo",
		District:    "Colombo",
		Province:    "Western",
		PostalCode:  "00100",
		Products:    []PlaceItem{{ProductID: 1, Quantity: 2}},
		Total:       1000,
	}
}

func TestPlaceOrderEndToEnd(t *testing.T) {
	notifier := &recordingNotifier{}
	service, _, _ := newTestService(notifier)

	created, err := service.Place(validRequest())
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("expected order id 1, got %d", created.ID)
	}
	if created.Address.City != "Colombo" || created.Address.PostalCode != "00100" {
		t.Fatalf("address not structured: %+v", created.Address)
	}
	if created.Time == "" {
		t.Fatal("expected placement time to be recorded")
	}

	if len(notifier.bills) != 1 {
		t.Fatalf("expected one bill, got %d", len(notifier.bills))
	}
	bill := notifier.bills[0]
	if bill.To != "jane@example.com" || bill.Name != "Jane" || bill.OrderID != 1 {
		t.Fatalf("unexpected bill header: %+v", bill)
	}
	if len(bill.Lines) != 1 {
		t.Fatalf("expected one bill line, got %d", len(bill.Lines))
	}
	line := bill.Lines[0]
	if line.Item != "Cat Toy" || line.Quantity != 2 || line.UnitPrice != 500 || line.Total != 1000 {
		t.Fatalf("unexpected bill line: %+v", line)
	}

	// the order is retrievable through product-filtered listing
	orders, err := service.ListByProduct(1)
	if err != nil {
		t.Fatalf("list by product: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != created.ID {
		t.Fatalf("order not found via product listing: %+v", orders)
	}
	if orders[0].Items[0].Product == nil || orders[0].Items[0].Product.Name != "Cat Toy" {
		t.Fatalf("line item missing joined product: %+v", orders[0].Items[0])
	}
}

func TestPlaceValidationFailurePersistsNothing(t *testing.T) {
	notifier := &recordingNotifier{}
	service, repo, _ := newTestService(notifier)

	req := validRequest()
	req.City = ""
	_, err := service.Place(req)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["city"] == "" {
		t.Fatalf("expected city in field errors, got %+v", verr.Fields)
	}

	orders, _ := repo.List(nil)
	if len(orders) != 0 {
		t.Fatalf("expected nothing persisted, got %d orders", len(orders))
	}
	if len(notifier.bills) != 0 {
		t.Fatal("expected no bill for failed validation")
	}
}

func TestPlaceEmptyProductsRejected(t *testing.T) {
	service, _, _ := newTestService(nil)

	req := validRequest()
	req.Products = nil
	_, err := service.Place(req)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["products"] == "" {
		t.Fatalf("expected products in field errors, got %+v", verr.Fields)
	}
}

func TestPlaceUnknownProductAbortsWholeOrder(t *testing.T) {
	notifier := &recordingNotifier{}
	service, repo, _ := newTestService(notifier)

	req := validRequest()
	req.Products = []PlaceItem{
		{ProductID: 1, Quantity: 1},
		{ProductID: 42, Quantity: 1},
	}
	_, err := service.Place(req)

	var perr *ProductNotFoundError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProductNotFoundError, got %v", err)
	}
	if perr.Ref != 42 {
		t.Fatalf("expected failing reference 42, got %d", perr.Ref)
	}

	orders, _ := repo.List(nil)
	if len(orders) != 0 {
		t.Fatalf("expected no partial order persisted, got %d", len(orders))
	}
}

func TestPlaceNotifierFailureStillSucceeds(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	service, repo, _ := newTestService(notifier)

	created, err := service.Place(validRequest())
	if err != nil {
		t.Fatalf("expected placement to succeed despite mail failure, got %v", err)
	}
	if _, err := repo.GetByID(created.ID); err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
}

func TestSetFinishedCanReopen(t *testing.T) {
	service, repo, _ := newTestService(nil)

	created, err := service.Place(validRequest())
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	if err := service.SetFinished(created.ID, true); err != nil {
		t.Fatalf("finish: %v", err)
	}
	ord, _ := repo.GetByID(created.ID)
	if !ord.IsFinish {
		t.Fatal("expected order finished")
	}

	if err := service.SetFinished(created.ID, false); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	ord, _ = repo.GetByID(created.ID)
	if ord.IsFinish {
		t.Fatal("expected order reopened")
	}

	if err := service.SetFinished(99, true); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown order, got %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	service, _, _ := newTestService(nil)

	first, _ := service.Place(validRequest())
	second, _ := service.Place(validRequest())
	if err := service.SetFinished(first.ID, true); err != nil {
		t.Fatalf("finish: %v", err)
	}

	finished := true
	got, err := service.List(&finished)
	if err != nil {
		t.Fatalf("list finished: %v", err)
	}
	if len(got) != 1 || got[0].ID != first.ID {
		t.Fatalf("unexpected finished orders: %+v", got)
	}

	open := false
	got, err = service.List(&open)
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(got) != 1 || got[0].ID != second.ID {
		t.Fatalf("unexpected open orders: %+v", got)
	}

	all, err := service.List(nil)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}
}

func TestRemoveByProduct(t *testing.T) {
	service, repo, _ := newTestService(nil)

	if _, err := service.Place(validRequest()); err != nil {
		t.Fatalf("place first: %v", err)
	}
	other := validRequest()
	other.Products = []PlaceItem{{ProductID: 2, Quantity: 1}}
	if _, err := service.Place(other); err != nil {
		t.Fatalf("place second: %v", err)
	}

	removed, err := service.RemoveByProduct(1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 order removed, got %d", removed)
	}
	left, _ := repo.List(nil)
	if len(left) != 1 {
		t.Fatalf("expected 1 order left, got %d", len(left))
	}

	if _, err := service.RemoveByProduct(42); err != product.ErrNotFound {
		t.Fatalf("expected product.ErrNotFound, got %v", err)
	}
}
