package services

import (
	"fmt"
	"strings"

	"github.com/festora/festora-api/models"
)

const userKeyPrefix = "user:"

// UserOwnerKey builds the owner key for an authenticated user. The
// "user:" prefix keeps user keys disjoint from anonymous cart tokens.
func UserOwnerKey(userID uint) string {
	return fmt.Sprintf("%s%d", userKeyPrefix, userID)
}

// IsUserOwnerKey reports whether key carries the reserved user prefix.
// Anonymous cart tokens must never use it; a client-supplied token that
// does is forged and gets rejected before any cart operation runs.
func IsUserOwnerKey(key string) bool {
	return strings.HasPrefix(key, userKeyPrefix)
}

type CartRepository interface {
	// ItemByOwnerAndProduct and ItemByID return ErrNotFound when no
	// matching row is owned by ownerKey.
	ItemByOwnerAndProduct(ownerKey string, productID uint) (*models.CartItem, error)
	ItemByID(ownerKey string, itemID uint) (*models.CartItem, error)
	ItemsByOwner(ownerKey string) ([]models.CartItem, error)
	Create(item *models.CartItem) error
	Save(item *models.CartItem) error
	Delete(itemID uint) error
	DeleteByOwner(ownerKey string) error
	ProductsByIDs(productIDs []uint) (map[uint]models.Product, error)
}

// CartLine is a cart item joined with its product for display.
type CartLine struct {
	Item    models.CartItem `json:"item"`
	Product models.Product  `json:"product"`
}

type CartService struct {
	Repo CartRepository
}

// AddItem is additive: adding a product already in the cart increments
// its quantity rather than replacing it.
func (s *CartService) AddItem(ownerKey string, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrValidation
	}

	products, err := s.Repo.ProductsByIDs([]uint{productID})
	if err != nil {
		return nil, err
	}
	if _, ok := products[productID]; !ok {
		return nil, ErrNotFound
	}

	item, err := s.Repo.ItemByOwnerAndProduct(ownerKey, productID)
	if err == nil {
		item.Quantity += quantity
		if err := s.Repo.Save(item); err != nil {
			return nil, err
		}
		return item, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	item = &models.CartItem{OwnerKey: ownerKey, ProductID: productID, Quantity: quantity}
	if err := s.Repo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem replaces the stored quantity. Quantity zero removes the
// line item and returns nil.
func (s *CartService) UpdateItem(ownerKey string, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 0 {
		return nil, ErrValidation
	}

	item, err := s.Repo.ItemByID(ownerKey, itemID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		if err := s.Repo.Delete(item.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	item.Quantity = quantity
	if err := s.Repo.Save(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) RemoveItem(ownerKey string, itemID uint) error {
	item, err := s.Repo.ItemByID(ownerKey, itemID)
	if err != nil {
		return err
	}
	return s.Repo.Delete(item.ID)
}

// ListItems joins each line item with its product. Items whose product
// no longer exists are dropped from the result.
func (s *CartService) ListItems(ownerKey string) ([]CartLine, error) {
	items, err := s.Repo.ItemsByOwner(ownerKey)
	if err != nil {
		return nil, err
	}

	productIDs := make([]uint, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.Repo.ProductsByIDs(productIDs)
	if err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, CartLine{Item: item, Product: product})
	}
	return lines, nil
}

func (s *CartService) Clear(ownerKey string) error {
	return s.Repo.DeleteByOwner(ownerKey)
}

// MergeCarts re-owns all items held under an anonymous cart token to
// the given user. When both carts contain the same product, quantities
// are summed so guest-cart contents are never silently discarded.
func (s *CartService) MergeCarts(cartToken string, userID uint) error {
	if cartToken == "" {
		return nil
	}
	// A token carrying the reserved prefix names another user's cart,
	// not an anonymous one. Merging it would move that user's items.
	if IsUserOwnerKey(cartToken) {
		return ErrValidation
	}
	userKey := UserOwnerKey(userID)

	items, err := s.Repo.ItemsByOwner(cartToken)
	if err != nil {
		return err
	}

	for i := range items {
		item := items[i]
		existing, err := s.Repo.ItemByOwnerAndProduct(userKey, item.ProductID)
		if err == nil {
			existing.Quantity += item.Quantity
			if err := s.Repo.Save(existing); err != nil {
				return err
			}
			if err := s.Repo.Delete(item.ID); err != nil {
				return err
			}
			continue
		}
		if err != ErrNotFound {
			return err
		}

		item.OwnerKey = userKey
		if err := s.Repo.Save(&item); err != nil {
			return err
		}
	}
	return nil
}
