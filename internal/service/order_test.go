package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapakgo/lapak/internal/domain"
	"github.com/lapakgo/lapak/internal/repository"
)

func TestCreateOrder_Success(t *testing.T) {
	store := newFakeStore()
	shop := store.addStore(repository.NewUUID(), "corner-shop")
	coffee := store.addProduct(shop.ID, "Coffee", decimal.RequireFromString("4.50"), true)
	store.setInventory(coffee.ID, 10)
	cake := store.addProduct(shop.ID, "Cake", decimal.RequireFromString("12.00"), false)

	svc, publisher := newTestOrderService(store)

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:         shop.ID,
		CustomerName:    "Ayu",
		CustomerPhone:   "+62 812-3456-7890",
		CustomerAddress: "Jl. Kenanga 5",
		Items: []domain.NewOrderItem{
			{ProductID: coffee.ID, Quantity: 2},
			{ProductID: cake.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("21.00")), "total = %s", order.Total)
	require.Len(t, order.Items, 2)

	// total is always the sum of the line snapshots
	sum := decimal.Decimal{}
	for _, item := range order.Items {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.True(t, order.Total.Equal(sum))

	// phone is stored hashed, never raw
	assert.NotEmpty(t, order.CustomerPhoneHash)
	assert.NotContains(t, order.CustomerPhoneHash, "8123456")

	// creation reserves nothing physically
	assert.Equal(t, int32(10), store.inventories[coffee.ID])

	require.Len(t, publisher.created, 1)
	assert.Equal(t, order.ID, publisher.created[0].ID)
}

func TestCreateOrder_SamePhoneSameHash(t *testing.T) {
	store := newFakeStore()
	shop := store.addStore(repository.NewUUID(), "corner-shop")
	product := store.addProduct(shop.ID, "Tea", decimal.RequireFromString("3.00"), false)

	svc, _ := newTestOrderService(store)

	place := func(phone string) *domain.Order {
		order, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
			StoreID:       shop.ID,
			CustomerName:  "Budi",
			CustomerPhone: phone,
			Items:         []domain.NewOrderItem{{ProductID: product.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		return order
	}

	// same number in different formatting hashes identically
	first := place("+62 812-3456-7890")
	second := place("628123456 7890")
	assert.Equal(t, first.CustomerPhoneHash, second.CustomerPhoneHash)
}

func TestCreateOrder_Oversell_NothingPersisted(t *testing.T) {
	store := newFakeStore()
	shop := store.addStore(repository.NewUUID(), "corner-shop")
	coffee := store.addProduct(shop.ID, "Coffee", decimal.RequireFromString("4.50"), true)
	store.setInventory(coffee.ID, 1)
	cake := store.addProduct(shop.ID, "Cake", decimal.RequireFromString("12.00"), false)

	svc, publisher := newTestOrderService(store)

	_, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items: []domain.NewOrderItem{
			{ProductID: cake.ID, Quantity: 1},
			{ProductID: coffee.ID, Quantity: 2},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Coffee")

	// whole order rejected, no order or item rows written
	assert.Empty(t, store.orders)
	assert.Empty(t, store.items)
	assert.Empty(t, publisher.created)
}

func TestCreateOrder_CatalogMismatch(t *testing.T) {
	store := newFakeStore()
	shop := store.addStore(repository.NewUUID(), "corner-shop")
	other := store.addStore(repository.NewUUID(), "other-shop")
	foreign := store.addProduct(other.ID, "Foreign", decimal.RequireFromString("1.00"), false)

	svc, _ := newTestOrderService(store)

	// product belongs to another store
	_, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items:         []domain.NewOrderItem{{ProductID: foreign.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrCatalogMismatch)

	// product does not exist at all
	_, err = svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items:         []domain.NewOrderItem{{ProductID: repository.NewUUID(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrCatalogMismatch)
}

func TestCreateOrder_StoreNotFound(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestOrderService(store)

	_, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       repository.NewUUID(),
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items:         []domain.NewOrderItem{{ProductID: repository.NewUUID(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)
}

func TestCreateOrder_ItemInsertFailureRollsBack(t *testing.T) {
	store := newFakeStore()
	shop := store.addStore(repository.NewUUID(), "corner-shop")
	product := store.addProduct(shop.ID, "Coffee", decimal.RequireFromString("4.50"), false)
	store.createOrderItemErr = errors.New("insert failed")

	svc, _ := newTestOrderService(store)

	_, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items:         []domain.NewOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	require.Error(t, err)

	// the order row inserted before the failing item must not survive
	assert.Empty(t, store.orders)
	assert.Empty(t, store.items)
}

func TestCreateOrder_Validation(t *testing.T) {
	store := newFakeStore()
	shop := store.addStore(repository.NewUUID(), "corner-shop")
	svc, _ := newTestOrderService(store)

	tests := []struct {
		name   string
		params domain.CreateOrderParams
	}{
		{
			name: "missing customer name",
			params: domain.CreateOrderParams{
				StoreID:       shop.ID,
				CustomerPhone: "0812345",
				Items:         []domain.NewOrderItem{{ProductID: repository.NewUUID(), Quantity: 1}},
			},
		},
		{
			name: "missing customer phone",
			params: domain.CreateOrderParams{
				StoreID:      shop.ID,
				CustomerName: "Ayu",
				Items:        []domain.NewOrderItem{{ProductID: repository.NewUUID(), Quantity: 1}},
			},
		},
		{
			name: "no items",
			params: domain.CreateOrderParams{
				StoreID:       shop.ID,
				CustomerName:  "Ayu",
				CustomerPhone: "0812345",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOrder(context.Background(), tt.params)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}

func TestUpdateOrderStatus_CompleteDecrementsAndReopenRestores(t *testing.T) {
	store := newFakeStore()
	owner := repository.NewUUID()
	shop := store.addStore(owner, "corner-shop")
	coffee := store.addProduct(shop.ID, "Coffee", decimal.RequireFromString("4.50"), true)
	store.setInventory(coffee.ID, 10)

	svc, publisher := newTestOrderService(store)

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items:         []domain.NewOrderItem{{ProductID: coffee.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	// PENDING -> COMPLETED commits stock
	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, owner, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, updated.Status)
	assert.Equal(t, int32(7), store.inventories[coffee.ID])

	// COMPLETED -> PENDING restores it exactly
	updated, err = svc.UpdateOrderStatus(context.Background(), order.ID, owner, domain.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, updated.Status)
	assert.Equal(t, int32(10), store.inventories[coffee.ID])

	require.Len(t, publisher.transitions, 2)
	assert.Equal(t, domain.OrderStatusPending, publisher.transitions[0].previous)
	assert.Equal(t, domain.OrderStatusCompleted, publisher.transitions[1].previous)
}

func TestUpdateOrderStatus_ConcurrentCompletionDecrementsOnce(t *testing.T) {
	store := newFakeStore()
	owner := repository.NewUUID()
	shop := store.addStore(owner, "corner-shop")
	coffee := store.addProduct(shop.ID, "Coffee", decimal.RequireFromString("4.50"), true)
	store.setInventory(coffee.ID, 10)

	svc, publisher := newTestOrderService(store)

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items:         []domain.NewOrderItem{{ProductID: coffee.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	// A rival completion commits between this request's read of the order
	// and its status write, so the PENDING it saw is stale.
	store.afterGetOrder = func() {
		o := store.orders[order.ID]
		o.Status = string(domain.OrderStatusCompleted)
		store.orders[order.ID] = o
	}

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, owner, domain.OrderStatusCompleted)
	require.Error(t, err)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	// The losing request's decrement must not survive.
	assert.Equal(t, int32(10), store.inventories[coffee.ID])
	assert.Empty(t, publisher.transitions)
}

func TestUpdateOrderStatus_SameStatusIsNoop(t *testing.T) {
	store := newFakeStore()
	owner := repository.NewUUID()
	shop := store.addStore(owner, "corner-shop")
	coffee := store.addProduct(shop.ID, "Coffee", decimal.RequireFromString("4.50"), true)
	store.setInventory(coffee.ID, 10)

	svc, publisher := newTestOrderService(store)

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items:         []domain.NewOrderItem{{ProductID: coffee.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	before := store.orders[order.ID].UpdatedAt

	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, owner, domain.OrderStatusPending)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, updated.Status)
	assert.Equal(t, int32(10), store.inventories[coffee.ID])
	assert.Equal(t, before, store.orders[order.ID].UpdatedAt, "updated_at must not move on a no-op")
	assert.Empty(t, publisher.transitions, "no event for a no-op transition")
}

func TestUpdateOrderStatus_PendingCancelledIsStockNeutral(t *testing.T) {
	store := newFakeStore()
	owner := repository.NewUUID()
	shop := store.addStore(owner, "corner-shop")
	coffee := store.addProduct(shop.ID, "Coffee", decimal.RequireFromString("4.50"), true)
	store.setInventory(coffee.ID, 10)

	svc, _ := newTestOrderService(store)

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items:         []domain.NewOrderItem{{ProductID: coffee.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, owner, domain.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, int32(10), store.inventories[coffee.ID])

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, owner, domain.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int32(10), store.inventories[coffee.ID])
}

func TestUpdateOrderStatus_InsufficiencyAbortsTransition(t *testing.T) {
	store := newFakeStore()
	owner := repository.NewUUID()
	shop := store.addStore(owner, "corner-shop")
	coffee := store.addProduct(shop.ID, "Coffee", decimal.RequireFromString("4.50"), true)
	cake := store.addProduct(shop.ID, "Cake", decimal.RequireFromString("12.00"), true)
	store.setInventory(coffee.ID, 5)
	store.setInventory(cake.ID, 5)

	svc, publisher := newTestOrderService(store)

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items: []domain.NewOrderItem{
			{ProductID: coffee.ID, Quantity: 2},
			{ProductID: cake.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	// stock drained between placement and completion
	store.setInventory(cake.ID, 1)

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, owner, domain.OrderStatusCompleted)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Cake")

	// the coffee decrement rolled back with the failed transition
	assert.Equal(t, int32(5), store.inventories[coffee.ID])
	assert.Equal(t, int32(1), store.inventories[cake.ID])
	assert.Equal(t, string(domain.OrderStatusPending), store.orders[order.ID].Status)
	assert.Empty(t, publisher.transitions)
}

func TestCreateOrder_VariantNullPriceUsesParent(t *testing.T) {
	store := newFakeStore()
	owner := repository.NewUUID()
	shop := store.addStore(owner, "corner-shop")
	shirt := store.addProduct(shop.ID, "Shirt", decimal.RequireFromString("15.00"), false)
	large := store.addVariant(shirt.ID, "Large", repository.ProductVariant{
		Price:          decimal.NullDecimal{},
		UseParentPrice: false,
	})

	svc, _ := newTestOrderService(store)

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items:         []domain.NewOrderItem{{ProductID: shirt.ID, Quantity: 2, VariantID: large.ID}},
	})
	require.NoError(t, err)

	// an unset variant price falls back to the parent, never to zero
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("15.00")), "price = %s", order.Items[0].Price)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("30.00")), "total = %s", order.Total)
}

func TestUpdateOrderStatus_VariantOwnPool(t *testing.T) {
	store := newFakeStore()
	owner := repository.NewUUID()
	shop := store.addStore(owner, "corner-shop")
	shirt := store.addProduct(shop.ID, "Shirt", decimal.RequireFromString("15.00"), true)
	store.setInventory(shirt.ID, 50)
	large := store.addVariant(shirt.ID, "Large", repository.ProductVariant{
		Price:          decimal.NullDecimal{Decimal: decimal.RequireFromString("9.99"), Valid: true},
		UseParentPrice: false,
		Stock:          4,
		UseParentStock: false,
		TrackInventory: true,
	})

	svc, _ := newTestOrderService(store)

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items:         []domain.NewOrderItem{{ProductID: shirt.ID, Quantity: 3, VariantID: large.ID}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, owner, domain.OrderStatusCompleted)
	require.NoError(t, err)

	// the variant's own pool moves, the parent pool does not
	assert.Equal(t, int32(1), store.variants[large.ID].Stock)
	assert.Equal(t, int32(50), store.inventories[shirt.ID])

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, owner, domain.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, int32(4), store.variants[large.ID].Stock)
}

func TestUpdateOrderStatus_VariantParentPool(t *testing.T) {
	store := newFakeStore()
	owner := repository.NewUUID()
	shop := store.addStore(owner, "corner-shop")
	mug := store.addProduct(shop.ID, "Mug", decimal.RequireFromString("6.00"), true)
	store.setInventory(mug.ID, 8)
	blue := store.addVariant(mug.ID, "Blue", repository.ProductVariant{
		UseParentPrice: true,
		Stock:          99,
		UseParentStock: true,
		TrackInventory: true,
	})

	svc, _ := newTestOrderService(store)

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items:         []domain.NewOrderItem{{ProductID: mug.ID, Quantity: 2, VariantID: blue.ID}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, owner, domain.OrderStatusCompleted)
	require.NoError(t, err)

	// deferring variant draws from the parent pool only
	assert.Equal(t, int32(6), store.inventories[mug.ID])
	assert.Equal(t, int32(99), store.variants[blue.ID].Stock)
}

func TestUpdateOrderStatus_DeletedProductLineSkipped(t *testing.T) {
	store := newFakeStore()
	owner := repository.NewUUID()
	shop := store.addStore(owner, "corner-shop")
	coffee := store.addProduct(shop.ID, "Coffee", decimal.RequireFromString("4.50"), true)
	store.setInventory(coffee.ID, 10)

	svc, _ := newTestOrderService(store)

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items:         []domain.NewOrderItem{{ProductID: coffee.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	// product removed from the catalog after checkout
	delete(store.products, coffee.ID)

	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, owner, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, updated.Status)
	assert.Equal(t, int32(10), store.inventories[coffee.ID], "deleted line must not touch stock")
}

func TestUpdateOrderStatus_TrackingDisabledAfterCheckout(t *testing.T) {
	store := newFakeStore()
	owner := repository.NewUUID()
	shop := store.addStore(owner, "corner-shop")
	coffee := store.addProduct(shop.ID, "Coffee", decimal.RequireFromString("4.50"), true)
	store.setInventory(coffee.ID, 10)

	svc, _ := newTestOrderService(store)

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items:         []domain.NewOrderItem{{ProductID: coffee.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	// merchant switches tracking off before completing the order
	p := store.products[coffee.ID]
	p.TrackInventory = false
	store.products[coffee.ID] = p

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, owner, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int32(10), store.inventories[coffee.ID])
}

func TestUpdateOrderStatus_OwnershipAndExistence(t *testing.T) {
	store := newFakeStore()
	owner := repository.NewUUID()
	shop := store.addStore(owner, "corner-shop")
	coffee := store.addProduct(shop.ID, "Coffee", decimal.RequireFromString("4.50"), false)

	svc, _ := newTestOrderService(store)

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items:         []domain.NewOrderItem{{ProductID: coffee.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// someone else's owner id is denied
	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, repository.NewUUID(), domain.OrderStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Equal(t, string(domain.OrderStatusPending), store.orders[order.ID].Status)

	// unknown order id
	_, err = svc.UpdateOrderStatus(context.Background(), repository.NewUUID(), owner, domain.OrderStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestGetOrder(t *testing.T) {
	store := newFakeStore()
	owner := repository.NewUUID()
	shop := store.addStore(owner, "corner-shop")
	coffee := store.addProduct(shop.ID, "Coffee", decimal.RequireFromString("4.50"), false)

	svc, _ := newTestOrderService(store)

	placed, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
		StoreID:       shop.ID,
		CustomerName:  "Ayu",
		CustomerPhone: "0812345",
		Items:         []domain.NewOrderItem{{ProductID: coffee.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	got, err := svc.GetOrder(context.Background(), placed.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Coffee", got.Items[0].ProductName)

	_, err = svc.GetOrder(context.Background(), placed.ID, repository.NewUUID())
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.GetOrder(context.Background(), repository.NewUUID(), owner)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestListOrders(t *testing.T) {
	store := newFakeStore()
	owner := repository.NewUUID()
	shop := store.addStore(owner, "corner-shop")
	coffee := store.addProduct(shop.ID, "Coffee", decimal.RequireFromString("4.50"), false)

	svc, _ := newTestOrderService(store)

	var placed []*domain.Order
	for i := 0; i < 3; i++ {
		order, err := svc.CreateOrder(context.Background(), domain.CreateOrderParams{
			StoreID:       shop.ID,
			CustomerName:  "Ayu",
			CustomerPhone: "0812345",
			Items:         []domain.NewOrderItem{{ProductID: coffee.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		placed = append(placed, order)
	}

	_, err := svc.UpdateOrderStatus(context.Background(), placed[1].ID, owner, domain.OrderStatusCancelled)
	require.NoError(t, err)

	orders, err := svc.ListOrders(context.Background(), shop.ID, owner)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	// newest first
	assert.Equal(t, placed[2].ID, orders[0].ID)
	assert.Equal(t, placed[0].ID, orders[2].ID)
	for _, o := range orders {
		assert.Len(t, o.Items, 1)
	}

	cancelled, err := svc.ListOrdersByStatus(context.Background(), shop.ID, owner, domain.OrderStatusCancelled)
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, placed[1].ID, cancelled[0].ID)

	_, err = svc.ListOrders(context.Background(), shop.ID, repository.NewUUID())
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.ListOrders(context.Background(), repository.NewUUID(), owner)
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)
}
