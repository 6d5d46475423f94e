package services

import (
	"testing"

	"github.com/festora/festora-api/models"
)

type fakeCartRepo struct {
	nextID   uint
	items    map[uint]*models.CartItem
	products map[uint]models.Product
}

func newFakeCartRepo(products ...models.Product) *fakeCartRepo {
	repo := &fakeCartRepo{
		nextID:   1,
		items:    make(map[uint]*models.CartItem),
		products: make(map[uint]models.Product),
	}
	for _, product := range products {
		repo.products[product.ID] = product
	}
	return repo
}

func (r *fakeCartRepo) ItemByOwnerAndProduct(ownerKey string, productID uint) (*models.CartItem, error) {
	for _, item := range r.items {
		if item.OwnerKey == ownerKey && item.ProductID == productID {
			copy := *item
			return &copy, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeCartRepo) ItemByID(ownerKey string, itemID uint) (*models.CartItem, error) {
	item, ok := r.items[itemID]
	if !ok || item.OwnerKey != ownerKey {
		return nil, ErrNotFound
	}
	copy := *item
	return &copy, nil
}

func (r *fakeCartRepo) ItemsByOwner(ownerKey string) ([]models.CartItem, error) {
	var result []models.CartItem
	for id := uint(1); id < r.nextID; id++ {
		if item, ok := r.items[id]; ok && item.OwnerKey == ownerKey {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeCartRepo) Create(item *models.CartItem) error {
	item.ID = r.nextID
	r.nextID++
	copy := *item
	r.items[item.ID] = &copy
	return nil
}

func (r *fakeCartRepo) Save(item *models.CartItem) error {
	copy := *item
	r.items[item.ID] = &copy
	return nil
}

func (r *fakeCartRepo) Delete(itemID uint) error {
	delete(r.items, itemID)
	return nil
}

func (r *fakeCartRepo) DeleteByOwner(ownerKey string) error {
	for id, item := range r.items {
		if item.OwnerKey == ownerKey {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *fakeCartRepo) ProductsByIDs(productIDs []uint) (map[uint]models.Product, error) {
	result := make(map[uint]models.Product)
	for _, id := range productIDs {
		if product, ok := r.products[id]; ok {
			result[id] = product
		}
	}
	return result, nil
}

func testProduct(id uint, price int) models.Product {
	product := models.Product{Price: price, Stock: 100, StallID: 1}
	product.ID = id
	return product
}

func TestAddItemMergesQuantities(t *testing.T) {
	repo := newFakeCartRepo(testProduct(1, 1000))
	cart := &CartService{Repo: repo}

	if _, err := cart.AddItem("tok", 1, 2); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := cart.AddItem("tok", 1, 3); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	items, _ := repo.ItemsByOwner("tok")
	if len(items) != 1 {
		t.Fatalf("Expected exactly one line item, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("Expected merged quantity 5, got %d", items[0].Quantity)
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	cart := &CartService{Repo: newFakeCartRepo(testProduct(1, 1000))}

	if _, err := cart.AddItem("tok", 1, 0); err != ErrValidation {
		t.Errorf("Expected ErrValidation for zero quantity, got %v", err)
	}
	if _, err := cart.AddItem("tok", 1, -2); err != ErrValidation {
		t.Errorf("Expected ErrValidation for negative quantity, got %v", err)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	cart := &CartService{Repo: newFakeCartRepo()}

	if _, err := cart.AddItem("tok", 42, 1); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound for unknown product, got %v", err)
	}
}

func TestUpdateItemReplacesQuantity(t *testing.T) {
	repo := newFakeCartRepo(testProduct(1, 1000))
	cart := &CartService{Repo: repo}

	item, _ := cart.AddItem("tok", 1, 2)

	updated, err := cart.UpdateItem("tok", item.ID, 7)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if updated.Quantity != 7 {
		t.Errorf("Expected quantity replaced with 7, got %d", updated.Quantity)
	}
}

func TestUpdateItemZeroQuantityDeletes(t *testing.T) {
	repo := newFakeCartRepo(testProduct(1, 1000))
	cart := &CartService{Repo: repo}

	item, _ := cart.AddItem("tok", 1, 2)

	result, err := cart.UpdateItem("tok", item.ID, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result != nil {
		t.Error("Expected nil item after zero-quantity update")
	}

	lines, _ := cart.ListItems("tok")
	if len(lines) != 0 {
		t.Errorf("Expected empty cart after deletion, got %d lines", len(lines))
	}
}

func TestUpdateItemNotOwned(t *testing.T) {
	repo := newFakeCartRepo(testProduct(1, 1000))
	cart := &CartService{Repo: repo}

	item, _ := cart.AddItem("tok", 1, 2)

	if _, err := cart.UpdateItem("other", item.ID, 3); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound for foreign owner, got %v", err)
	}
}

func TestRemoveItemNotFound(t *testing.T) {
	cart := &CartService{Repo: newFakeCartRepo(testProduct(1, 1000))}

	if err := cart.RemoveItem("tok", 99); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListItemsDropsUnknownProducts(t *testing.T) {
	repo := newFakeCartRepo(testProduct(1, 1000))
	cart := &CartService{Repo: repo}

	cart.AddItem("tok", 1, 1)

	// Simulate the product disappearing from the catalog.
	orphan := &models.CartItem{OwnerKey: "tok", ProductID: 999, Quantity: 1}
	repo.Create(orphan)

	lines, err := cart.ListItems("tok")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("Expected orphaned item to be dropped, got %d lines", len(lines))
	}
	if lines[0].Product.ID != 1 {
		t.Errorf("Expected product 1 in the join, got %d", lines[0].Product.ID)
	}
}

func TestClearRemovesOnlyOwnersItems(t *testing.T) {
	repo := newFakeCartRepo(testProduct(1, 1000), testProduct(2, 500))
	cart := &CartService{Repo: repo}

	cart.AddItem("tok", 1, 1)
	cart.AddItem("other", 2, 1)

	if err := cart.Clear("tok"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	mine, _ := cart.ListItems("tok")
	theirs, _ := cart.ListItems("other")
	if len(mine) != 0 {
		t.Errorf("Expected cleared cart, got %d lines", len(mine))
	}
	if len(theirs) != 1 {
		t.Errorf("Expected other owner's cart untouched, got %d lines", len(theirs))
	}
}

func TestMergeCartsSumsQuantities(t *testing.T) {
	repo := newFakeCartRepo(testProduct(1, 1000))
	cart := &CartService{Repo: repo}

	// Anonymous cart has qty 2, user cart has qty 3.
	cart.AddItem("tok", 1, 2)
	cart.AddItem(UserOwnerKey(10), 1, 3)

	if err := cart.MergeCarts("tok", 10); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	userLines, _ := cart.ListItems(UserOwnerKey(10))
	if len(userLines) != 1 {
		t.Fatalf("Expected one merged line, got %d", len(userLines))
	}
	if userLines[0].Item.Quantity != 5 {
		t.Errorf("Expected merged quantity 5, got %d", userLines[0].Item.Quantity)
	}

	anonLines, _ := cart.ListItems("tok")
	if len(anonLines) != 0 {
		t.Errorf("Expected the anonymous cart to no longer exist, got %d lines", len(anonLines))
	}
}

func TestMergeCartsRejectsReservedToken(t *testing.T) {
	repo := newFakeCartRepo(testProduct(1, 1000))
	cart := &CartService{Repo: repo}

	cart.AddItem(UserOwnerKey(42), 1, 2)

	// Merging a token that spells another user's owner key would move
	// that user's items into the caller's cart.
	if err := cart.MergeCarts(UserOwnerKey(42), 10); err != ErrValidation {
		t.Errorf("Expected ErrValidation, got %v", err)
	}

	otherLines, _ := cart.ListItems(UserOwnerKey(42))
	if len(otherLines) != 1 || otherLines[0].Item.Quantity != 2 {
		t.Errorf("Expected the other user's cart untouched, got %+v", otherLines)
	}
	callerLines, _ := cart.ListItems(UserOwnerKey(10))
	if len(callerLines) != 0 {
		t.Errorf("Expected nothing merged into the caller's cart, got %d lines", len(callerLines))
	}
}

func TestMergeCartsReownsNewProducts(t *testing.T) {
	repo := newFakeCartRepo(testProduct(1, 1000), testProduct(2, 500))
	cart := &CartService{Repo: repo}

	cart.AddItem("tok", 1, 2)
	cart.AddItem("tok", 2, 1)
	cart.AddItem(UserOwnerKey(10), 1, 1)

	if err := cart.MergeCarts("tok", 10); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	userLines, _ := cart.ListItems(UserOwnerKey(10))
	if len(userLines) != 2 {
		t.Fatalf("Expected two lines after merge, got %d", len(userLines))
	}

	quantities := make(map[uint]int)
	for _, line := range userLines {
		quantities[line.Item.ProductID] = line.Item.Quantity
	}
	if quantities[1] != 3 || quantities[2] != 1 {
		t.Errorf("Expected quantities {1:3, 2:1}, got %v", quantities)
	}
}
