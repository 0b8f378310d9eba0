package order

import (
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/poopooshop/shop-backend/internal/product"
)

// ValidationError reports the missing/malformed fields of a placement
// request. Nothing is persisted when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "invalid order request" }

// ProductNotFoundError names the line-item business reference that failed
// to resolve. The whole order is aborted; no partial order is persisted.
type ProductNotFoundError struct {
	Ref int
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.Ref)
}

// Bill is the structured confirmation handed to the notifier. Line totals
// come from the product snapshot resolved during placement.
type Bill struct {
	To      string
	Name    string
	OrderID int
	Lines   []BillLine
	Total   float64
}

type BillLine struct {
	Item      string
	Quantity  int
	UnitPrice float64
	Total     float64
}

// Notifier delivers the order-confirmation mail. Delivery failure is a
// side-channel error: logged, never propagated to the caller.
type Notifier interface {
	SendOrderConfirmation(b Bill) error
}

// PlaceRequest is the wire payload of POST /orderconfirmation. Address
// fields arrive flat, as the storefront has always sent them.
type PlaceRequest struct {
	Email        string      `json:"email" validate:"required,email"`
	WhatsApp     string      `json:"whatsApp" validate:"required"`
	PhoneNumber  string      `json:"phoneNumber" validate:"required"`
	FirstName    string      `json:"firstName" validate:"required"`
	LastName     string      `json:"lastName" validate:"required"`
	HouseNumber  string      `json:"houseNumber"`
	AddressLine1 string      `json:"addressLine1"`
	AddressLine2 string      `json:"addressLine2"`
	City         string      `json:"city" validate:"required"`
	District     string      `json:"district" validate:"required"`
	Province     string      `json:"province" validate:"required"`
	PostalCode   string      `json:"postalCode" validate:"required"`
	Products     []PlaceItem `json:"products" validate:"required,min=1,dive"`
	Total        float64     `json:"total" validate:"gte=0"`
}

// PlaceItem references a product by its business identifier.
type PlaceItem struct {
	ProductID int `json:"product_id" validate:"required"`
	Quantity  int `json:"quantity" validate:"required,gt=0"`
}

type Service struct {
	repo     Repository
	products product.ServiceInterface
	notifier Notifier
	validate *validator.Validate
}

func NewService(repo Repository, products product.ServiceInterface, notifier Notifier) *Service {
	v := validator.New()
	// report field errors under their wire names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{repo: repo, products: products, notifier: notifier, validate: v}
}

// Place runs the order placement workflow: validate, resolve every product
// reference, persist, then notify. Validation and resolution failures
// abort before anything is written; a failed notification is logged and
// the placement still succeeds.
func (s *Service) Place(req PlaceRequest) (Order, error) {
	if err := s.validateRequest(req); err != nil {
		return Order{}, err
	}

	items := make([]LineItem, 0, len(req.Products))
	lines := make([]BillLine, 0, len(req.Products))
	for _, item := range req.Products {
		p, err := s.products.GetByID(item.ProductID)
		if err != nil {
			if err == product.ErrNotFound {
				return Order{}, &ProductNotFoundError{Ref: item.ProductID}
			}
			return Order{}, err
		}
		items = append(items, LineItem{ProductRef: p.OID, Quantity: item.Quantity})
		lines = append(lines, BillLine{
			Item:      p.Name,
			Quantity:  item.Quantity,
			UnitPrice: p.NewPrice,
			Total:     float64(item.Quantity) * p.NewPrice,
		})
	}

	now := time.Now()
	created, err := s.repo.Create(Order{
		Email:       req.Email,
		WhatsApp:    req.WhatsApp,
		PhoneNumber: req.PhoneNumber,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Address: Address{
			HouseNumber:  req.HouseNumber,
			AddressLine1: req.AddressLine1,
			AddressLine2: req.AddressLine2,
			City:         req.City,
			District:     req.District,
			Province:     req.Province,
			PostalCode:   req.PostalCode,
		},
		Items: items,
		Total: req.Total,
		Date:  now.UTC(),
		Time:  now.Format("3:04:05 PM"),
	})
	if err != nil {
		return Order{}, err
	}

	if s.notifier != nil {
		bill := Bill{
			To:      created.Email,
			Name:    created.FirstName,
			OrderID: created.ID,
			Lines:   lines,
			Total:   created.Total,
		}
		if err := s.notifier.SendOrderConfirmation(bill); err != nil {
			log.Printf("warning: could not send confirmation for order %d: %v", created.ID, err)
		}
	}
	return created, nil
}

func (s *Service) validateRequest(req PlaceRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = messageFor(fe)
	}
	return &ValidationError{Fields: fields}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must not be empty"
	case "gt":
		return fe.Field() + " must be positive"
	case "gte":
		return fe.Field() + " must not be negative"
	default:
		return fe.Field() + " is invalid"
	}
}

// List returns orders with product display fields joined onto line items.
// The join resolves current products, so historical orders show today's
// names and prices.
func (s *Service) List(finished *bool) ([]Order, error) {
	orders, err := s.repo.List(finished)
	if err != nil {
		return nil, err
	}
	return s.join(orders)
}

// ListByProduct returns orders referencing the product with the given
// business identifier.
func (s *Service) ListByProduct(productID int) ([]Order, error) {
	p, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.ListByProductRef(p.OID)
	if err != nil {
		return nil, err
	}
	return s.join(orders)
}

// SetFinished overwrites the status flag; there is no transition graph, so
// finished orders can be reopened.
func (s *Service) SetFinished(id int, finished bool) error {
	return s.repo.SetFinished(id, finished)
}

// RemoveByProduct deletes all orders referencing the product.
func (s *Service) RemoveByProduct(productID int) (int, error) {
	p, err := s.products.GetByID(productID)
	if err != nil {
		return 0, err
	}
	return s.repo.DeleteByProductRef(p.OID)
}

func (s *Service) join(orders []Order) ([]Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}

	seen := map[primitive.ObjectID]struct{}{}
	oids := make([]primitive.ObjectID, 0)
	for _, ord := range orders {
		for _, item := range ord.Items {
			if _, ok := seen[item.ProductRef]; !ok {
				seen[item.ProductRef] = struct{}{}
				oids = append(oids, item.ProductRef)
			}
		}
	}

	resolved, err := s.products.GetByOIDs(oids)
	if err != nil {
		return nil, err
	}
	byOID := make(map[primitive.ObjectID]product.Summary, len(resolved))
	for _, p := range resolved {
		byOID[p.OID] = p.Summary()
	}

	for i := range orders {
		for j := range orders[i].Items {
			if summary, ok := byOID[orders[i].Items[j].ProductRef]; ok {
				s := summary
				orders[i].Items[j].Product = &s
			}
		}
	}
	return orders, nil
}
