package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"clindoeil-api/internal/domain"
	"clindoeil-api/pkg/utils"
)

// DroppexConfig carries the delivery partner's credentials and endpoint.
type DroppexConfig struct {
	URL  string
	Code string
	Key  string
}

// DeliveryOrder is one parcel in a bulk Droppex sync request.
type DeliveryOrder struct {
	Client struct {
		Name        string `json:"nom"`
		Phone       string `json:"telephone"`
		Phone2      string `json:"telephone2"`
		Governorate string `json:"gouvernerat"`
		Address     string `json:"adresse"`
	} `json:"Client"`
	Product struct {
		Designation  string  `json:"designation"`
		Price        float64 `json:"prix"`
		ArticleCount int     `json:"nombreArticle"`
		Comment      string  `json:"commentaire"`
	} `json:"Produit"`
}

type DeliveryResult struct {
	Success bool   `json:"success"`
	Barcode string `json:"code_barre,omitempty"`
	Error   string `json:"error,omitempty"`
}

type OrderService struct {
	orders  domain.OrderRepository
	droppex DroppexConfig
	client  *http.Client
	log     *zap.Logger
}

func NewOrderService(orders domain.OrderRepository, droppex DroppexConfig, log *zap.Logger) *OrderService {
	return &OrderService{
		orders:  orders,
		droppex: droppex,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

// Create normalizes the incoming cart lines so single items and packs are
// stored uniformly, then persists the order.
func (s *OrderService) Create(o *domain.Order) error {
	if o.Customer.Name == "" || len(o.Items) == 0 {
		return fmt.Errorf("%w: missing required fields", domain.ErrValidation)
	}
	for i := range o.Items {
		it := &o.Items[i]
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		if it.Type == "" {
			it.Type = "single"
		}
		if it.Type != "pack" {
			it.Products = nil
			continue
		}
		for j := range it.Products {
			if it.Products[j].Quantity < 1 {
				it.Products[j].Quantity = 1
			}
		}
	}
	o.ID = utils.NewID()
	// Status is server-owned; whatever the client sent is discarded.
	o.Status = domain.OrderPending
	return s.orders.Create(o)
}

func (s *OrderService) Get(id string) (*domain.Order, error) {
	o, err := s.orders.FindByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *OrderService) List() ([]domain.Order, error) { return s.orders.List() }

func (s *OrderService) Delete(id string) error { return s.orders.DeleteByID(id) }

func (s *OrderService) UpdateStatus(id, status string) (*domain.Order, error) {
	switch status {
	case domain.OrderPending, domain.OrderShipped, domain.OrderDelivered:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	return s.orders.UpdateStatus(id, status)
}

// SendToDelivery pushes each order to Droppex one by one and accumulates
// per-order outcomes; a single upstream failure never aborts the batch.
func (s *OrderService) SendToDelivery(ctx context.Context, orders []DeliveryOrder) []DeliveryResult {
	results := make([]DeliveryResult, 0, len(orders))
	for _, o := range orders {
		barcode, err := s.submitParcel(ctx, o)
		if err != nil {
			s.log.Warn("droppex submit failed", zap.Error(err))
			results = append(results, DeliveryResult{Success: false, Error: err.Error()})
			continue
		}
		results = append(results, DeliveryResult{Success: true, Barcode: barcode})
	}
	return results
}

func (s *OrderService) submitParcel(ctx context.Context, o DeliveryOrder) (string, error) {
	form := url.Values{}
	form.Set("action", "add")
	form.Set("code_api", s.droppex.Code)
	form.Set("cle_api", s.droppex.Key)
	form.Set("tel_l", o.Client.Phone)
	form.Set("tel2_l", o.Client.Phone2)
	form.Set("nom_client", o.Client.Name)
	form.Set("gov_l", o.Client.Governorate)
	form.Set("adresse_l", o.Client.Address)
	form.Set("libelle", o.Product.Designation)
	form.Set("cod", strconv.FormatFloat(o.Product.Price, 'f', -1, 64))
	form.Set("nb_piece", strconv.Itoa(o.Product.ArticleCount))
	form.Set("remarque", o.Product.Comment)
	form.Set("service", "Livraison")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.droppex.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("droppex responded %d", resp.StatusCode)
	}
	var out struct {
		Barcode string `json:"code_barre"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode droppex response: %w", err)
	}
	return out.Barcode, nil
}
