package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clindoeil-api/internal/domain"
	"clindoeil-api/internal/repo/repotest"
)

func testOrder() *domain.Order {
	return &domain.Order{
		Customer: domain.OrderCustomer{Name: "Jane", Phone: "12345678", Address: "1 rue du Test"},
		Items: []domain.OrderItem{
			{ProductID: "p1", Name: "Lamp", Price: 50, Quantity: 0},
			{ProductID: "p2", Name: "Bundle", Price: 90, Quantity: 2, Type: "pack",
				Products: []domain.PackItem{{ProductID: "p3", Name: "Bulb", Quantity: 0}}},
			{ProductID: "p4", Name: "Chair", Price: 120, Quantity: 1, Products: []domain.PackItem{{ProductID: "junk"}}},
		},
		Subtotal: 260,
		Total:    267,
	}
}

func TestOrderCreateNormalizes(t *testing.T) {
	svc := NewOrderService(repotest.NewOrders(), DroppexConfig{}, zap.NewNop())

	o := testOrder()
	require.NoError(t, svc.Create(o))
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, domain.OrderPending, o.Status)

	assert.Equal(t, 1, o.Items[0].Quantity)
	assert.Equal(t, "single", o.Items[0].Type)

	// Pack lines keep their nested products, with quantities floored at 1.
	assert.Equal(t, "pack", o.Items[1].Type)
	assert.Equal(t, 1, o.Items[1].Products[0].Quantity)

	// Non-pack lines must not carry nested products.
	assert.Nil(t, o.Items[2].Products)
}

func TestOrderCreateIgnoresClientStatus(t *testing.T) {
	svc := NewOrderService(repotest.NewOrders(), DroppexConfig{}, zap.NewNop())

	o := testOrder()
	o.Status = domain.OrderDelivered
	require.NoError(t, svc.Create(o))
	assert.Equal(t, domain.OrderPending, o.Status)
}

func TestOrderListNewestFirst(t *testing.T) {
	svc := NewOrderService(repotest.NewOrders(), DroppexConfig{}, zap.NewNop())

	first := testOrder()
	require.NoError(t, svc.Create(first))
	second := testOrder()
	second.Customer.Name = "Later Jane"
	require.NoError(t, svc.Create(second))

	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestOrderCreateValidation(t *testing.T) {
	svc := NewOrderService(repotest.NewOrders(), DroppexConfig{}, zap.NewNop())

	err := svc.Create(&domain.Order{Items: []domain.OrderItem{{Name: "x"}}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.Create(&domain.Order{Customer: domain.OrderCustomer{Name: "Jane"}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOrderUpdateStatus(t *testing.T) {
	svc := NewOrderService(repotest.NewOrders(), DroppexConfig{}, zap.NewNop())
	o := testOrder()
	require.NoError(t, svc.Create(o))

	got, err := svc.UpdateStatus(o.ID, domain.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderShipped, got.Status)

	_, err = svc.UpdateStatus(o.ID, "teleported")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateStatus("missing", domain.OrderShipped)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSendToDelivery(t *testing.T) {
	var seen []map[string]string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		seen = append(seen, map[string]string{
			"action":     r.PostFormValue("action"),
			"code_api":   r.PostFormValue("code_api"),
			"cle_api":    r.PostFormValue("cle_api"),
			"nom_client": r.PostFormValue("nom_client"),
			"service":    r.PostFormValue("service"),
		})
		if r.PostFormValue("nom_client") == "Broken" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"code_barre": "BC-42"})
	}))
	defer upstream.Close()

	svc := NewOrderService(repotest.NewOrders(), DroppexConfig{URL: upstream.URL, Code: "code", Key: "key"}, zap.NewNop())

	ok := DeliveryOrder{}
	ok.Client.Name = "Jane"
	ok.Product.Designation = "Lamp"
	broken := DeliveryOrder{}
	broken.Client.Name = "Broken"

	results := svc.SendToDelivery(context.Background(), []DeliveryOrder{ok, broken})
	require.Len(t, results, 2)

	assert.True(t, results[0].Success)
	assert.Equal(t, "BC-42", results[0].Barcode)

	// One upstream failure never aborts the batch.
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)

	require.Len(t, seen, 2)
	assert.Equal(t, "add", seen[0]["action"])
	assert.Equal(t, "code", seen[0]["code_api"])
	assert.Equal(t, "key", seen[0]["cle_api"])
	assert.Equal(t, "Livraison", seen[0]["service"])
}
