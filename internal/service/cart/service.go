package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"shopcart/internal/domain"
	cartrepo "shopcart/internal/repository/cart"
	"shopcart/internal/service/variant"
)

// Service applies cart mutations and reconciles before every response,
// so callers never observe stale derived totals.
type Service struct {
	repo       cartRepo
	catalog    Catalog
	reconciler *Reconciler
}

type cartRepo interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, storeCode, id string) (*domain.Cart, error)
	GetActiveByCustomer(ctx context.Context, storeCode, customerID string) (*domain.Cart, error)
	AddLine(ctx context.Context, line domain.CartLine) error
	SetLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, lineID string) error
	SetDestination(ctx context.Context, storeCode, cartID, countryCode string) error
	SaveDerived(ctx context.Context, cart *domain.Cart) error
}

func New(repo cartrepo.Repository, catalog Catalog, reconciler *Reconciler) *Service {
	return &Service{repo: repo, catalog: catalog, reconciler: reconciler}
}

type CreateInput struct {
	CustomerID         *string `json:"customerId,omitempty"`
	Currency           string  `json:"currency"`
	DestinationCountry string  `json:"destinationCountry,omitempty"`
}

type UpdateInput struct {
	Actions []UpdateAction `json:"actions"`
}

type UpdateAction struct {
	Action         string   `json:"action"`
	SKU            string   `json:"sku,omitempty"`
	OptionValueIDs []string `json:"optionValueIds,omitempty"`
	LineItemID     string   `json:"lineItemId,omitempty"`
	Quantity       int      `json:"quantity,omitempty"`
	CountryCode    string   `json:"countryCode,omitempty"`
}

func (s *Service) Create(ctx context.Context, storeCode string, in CreateInput) (*ReadableCart, error) {
	if strings.TrimSpace(in.Currency) == "" {
		return nil, domain.Invalid("currency required")
	}
	cart, err := s.repo.Create(ctx, cartrepo.CreateCartInput{
		StoreCode:          storeCode,
		CustomerID:         in.CustomerID,
		Currency:           in.Currency,
		DestinationCountry: strings.ToUpper(strings.TrimSpace(in.DestinationCountry)),
	})
	if err != nil {
		return nil, err
	}
	readable := ToReadable(*cart)
	return &readable, nil
}

// Get loads and reconciles a cart without persisting the result; reads
// never write.
func (s *Service) Get(ctx context.Context, storeCode, id string) (*ReadableCart, error) {
	cart, err := s.repo.GetByID(ctx, storeCode, id)
	if err != nil {
		return nil, err
	}
	if err := s.reconciler.Reconcile(ctx, cart); err != nil {
		return nil, err
	}
	readable := ToReadable(*cart)
	return &readable, nil
}

// GetActive returns the customer's most recent active cart, reconciled.
func (s *Service) GetActive(ctx context.Context, storeCode, customerID string) (*ReadableCart, error) {
	cart, err := s.repo.GetActiveByCustomer(ctx, storeCode, customerID)
	if err != nil {
		return nil, err
	}
	if err := s.reconciler.Reconcile(ctx, cart); err != nil {
		return nil, err
	}
	readable := ToReadable(*cart)
	return &readable, nil
}

// Update applies the actions in order, then reconciles and persists the
// derived prices and rollup.
func (s *Service) Update(ctx context.Context, storeCode, cartID string, in UpdateInput) (*ReadableCart, error) {
	if len(in.Actions) == 0 {
		return nil, domain.Invalid("actions required")
	}
	cart, err := s.repo.GetByID(ctx, storeCode, cartID)
	if err != nil {
		return nil, err
	}

	for _, action := range in.Actions {
		if err := s.apply(ctx, cart, action); err != nil {
			return nil, err
		}
	}

	return s.Reconcile(ctx, storeCode, cartID)
}

// Reconcile reloads the cart, recomputes everything and persists the
// result. This is the explicit refresh entry point.
func (s *Service) Reconcile(ctx context.Context, storeCode, cartID string) (*ReadableCart, error) {
	cart, err := s.repo.GetByID(ctx, storeCode, cartID)
	if err != nil {
		return nil, err
	}
	if err := s.reconciler.Reconcile(ctx, cart); err != nil {
		return nil, err
	}
	if err := s.repo.SaveDerived(ctx, cart); err != nil {
		return nil, err
	}
	readable := ToReadable(*cart)
	return &readable, nil
}

func (s *Service) apply(ctx context.Context, cart *domain.Cart, action UpdateAction) error {
	switch strings.ToLower(strings.TrimSpace(action.Action)) {
	case "addlineitem":
		sku := strings.TrimSpace(action.SKU)
		if sku == "" {
			return domain.Invalid("sku required")
		}
		product, err := s.catalog.GetBySKU(ctx, cart.StoreCode, sku)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Invalid("product not found")
			}
			return err
		}
		// Reject selections that can never resolve up front; stock is
		// still only checked at reconcile time.
		if _, err := variant.Resolve(*product, action.OptionValueIDs); err != nil {
			return err
		}
		line := domain.CartLine{
			ID:                     uuid.NewString(),
			CartID:                 cart.ID,
			ProductID:              product.ID,
			SKU:                    product.SKU,
			Name:                   product.Name,
			SelectedOptionValueIDs: action.OptionValueIDs,
			Quantity:               domain.NormalizeQuantity(action.Quantity),
		}
		if err := s.repo.AddLine(ctx, line); err != nil {
			return err
		}
		cart.MarkDirty()
		return nil

	case "changelineitemquantity":
		lineID := strings.TrimSpace(action.LineItemID)
		if lineID == "" {
			return domain.Invalid("lineItemId required")
		}
		if err := s.repo.SetLineQuantity(ctx, cart.ID, lineID, domain.NormalizeQuantity(action.Quantity)); err != nil {
			return err
		}
		cart.MarkDirty()
		return nil

	case "removelineitem":
		lineID := strings.TrimSpace(action.LineItemID)
		if lineID == "" {
			return domain.Invalid("lineItemId required")
		}
		if err := s.repo.RemoveLine(ctx, cart.ID, lineID); err != nil {
			return err
		}
		cart.MarkDirty()
		return nil

	case "setdestination":
		country := strings.ToUpper(strings.TrimSpace(action.CountryCode))
		if country == "" {
			return domain.Invalid("countryCode required")
		}
		if err := s.repo.SetDestination(ctx, cart.StoreCode, cart.ID, country); err != nil {
			return err
		}
		cart.SetDestination(country)
		return nil

	default:
		return domain.Invalid("unsupported action")
	}
}
