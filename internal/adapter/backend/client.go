// Package backend is the typed client for the storefront's upstream REST API
// (the /api surface: catalog, auth, carts, orders, admin). The backend owns
// all durable state; this client only reads and writes on behalf of one
// session, forwarding its bearer token.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	domain "github.com/VirajMandavkar/luminaire-storefront/internal/entity"
	"github.com/VirajMandavkar/luminaire-storefront/internal/logging"
	"github.com/VirajMandavkar/luminaire-storefront/internal/usecase"
)

type Client struct {
	http *resty.Client
	log  *slog.Logger
}

// NewClient builds a client rooted at baseURL (e.g. http://host:8000/api).
// No retries: upstream failures surface to the caller immediately.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: rc, log: logging.New("backend")}
}

func (c *Client) req(ctx context.Context, token string) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if token != "" {
		r.SetAuthToken(token)
	}
	return r
}

func statusErr(op string, resp *resty.Response) error {
	return fmt.Errorf("backend: %s: status %d: %s", op, resp.StatusCode(), resp.String())
}

// --- Catalog ---

func (c *Client) ListProducts(ctx context.Context, q usecase.ListProductsQuery) ([]domain.Product, error) {
	req := c.req(ctx, "")
	if q.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(q.Limit))
	}
	if q.Featured != nil {
		req.SetQueryParam("featured", strconv.FormatBool(*q.Featured))
	}
	if q.Category != "" {
		req.SetQueryParam("category", q.Category)
	}
	if q.Search != "" {
		req.SetQueryParam("search", q.Search)
	}

	var products []domain.Product
	resp, err := req.SetResult(&products).Get("/products")
	if err != nil {
		return nil, fmt.Errorf("backend: list products: %w", err)
	}
	if resp.IsError() {
		return nil, statusErr("list products", resp)
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	resp, err := c.req(ctx, "").SetResult(&p).Get("/products/" + id)
	if err != nil {
		return nil, fmt.Errorf("backend: get product %s: %w", id, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, domain.ErrProductNotFound
	}
	if resp.IsError() {
		return nil, statusErr("get product", resp)
	}
	return &p, nil
}

// --- Cart ---

type cartDoc struct {
	UserID    string            `json:"userId"`
	Items     []domain.CartLine `json:"items"`
	UpdatedAt string            `json:"updatedAt"`
}

func (c *Client) FetchCart(ctx context.Context, token string) ([]domain.CartLine, error) {
	var doc cartDoc
	resp, err := c.req(ctx, token).SetResult(&doc).Get("/cart")
	if err != nil {
		return nil, fmt.Errorf("backend: fetch cart: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, domain.ErrUnauthorized
	}
	if resp.IsError() {
		return nil, statusErr("fetch cart", resp)
	}
	return doc.Items, nil
}

func (c *Client) ReplaceCart(ctx context.Context, token string, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	resp, err := c.req(ctx, token).SetBody(lines).Post("/cart")
	if err != nil {
		return fmt.Errorf("backend: replace cart: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return domain.ErrUnauthorized
	}
	if resp.IsError() {
		return statusErr("replace cart", resp)
	}
	return nil
}

// --- Orders ---

func (c *Client) CreateOrder(ctx context.Context, token string, draft domain.OrderDraft) (*domain.Order, error) {
	var order domain.Order
	resp, err := c.req(ctx, token).SetBody(draft).SetResult(&order).Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("backend: create order: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, domain.ErrUnauthorized
	}
	if resp.IsError() {
		return nil, statusErr("create order", resp)
	}
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var orders []domain.Order
	resp, err := c.req(ctx, token).SetResult(&orders).Get("/orders")
	if err != nil {
		return nil, fmt.Errorf("backend: list orders: %w", err)
	}
	if resp.IsError() {
		return nil, statusErr("list orders", resp)
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*domain.Order, error) {
	var order domain.Order
	resp, err := c.req(ctx, token).SetResult(&order).Get("/orders/" + orderID)
	if err != nil {
		return nil, fmt.Errorf("backend: get order %s: %w", orderID, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, domain.ErrOrderNotFound
	}
	if resp.IsError() {
		return nil, statusErr("get order", resp)
	}
	return &order, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID, status string) error {
	body := map[string]string{"status": status}
	resp, err := c.req(ctx, token).SetBody(body).Patch("/orders/" + orderID + "/status")
	if err != nil {
		return fmt.Errorf("backend: update order status: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return domain.ErrOrderNotFound
	}
	if resp.IsError() {
		return statusErr("update order status", resp)
	}
	return nil
}

// --- Admin catalog ---

func (c *Client) CreateProduct(ctx context.Context, token string, draft domain.ProductDraft) (*domain.Product, error) {
	var p domain.Product
	resp, err := c.req(ctx, token).SetBody(draft).SetResult(&p).Post("/products")
	if err != nil {
		return nil, fmt.Errorf("backend: create product: %w", err)
	}
	if resp.IsError() {
		return nil, statusErr("create product", resp)
	}
	return &p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, token, id string, draft domain.ProductDraft) (*domain.Product, error) {
	var p domain.Product
	resp, err := c.req(ctx, token).SetBody(draft).SetResult(&p).Put("/products/" + id)
	if err != nil {
		return nil, fmt.Errorf("backend: update product %s: %w", id, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, domain.ErrProductNotFound
	}
	if resp.IsError() {
		return nil, statusErr("update product", resp)
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	resp, err := c.req(ctx, token).Delete("/products/" + id)
	if err != nil {
		return fmt.Errorf("backend: delete product %s: %w", id, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return domain.ErrProductNotFound
	}
	if resp.IsError() {
		return statusErr("delete product", resp)
	}
	return nil
}

// DashboardStats is the admin overview payload.
type DashboardStats struct {
	TotalSales    float64        `json:"totalSales"`
	TotalOrders   int            `json:"totalOrders"`
	TotalProducts int            `json:"totalProducts"`
	TotalUsers    int            `json:"totalUsers"`
	RecentOrders  []domain.Order `json:"recentOrders"`
}

func (c *Client) Dashboard(ctx context.Context, token string) (*DashboardStats, error) {
	var stats DashboardStats
	resp, err := c.req(ctx, token).SetResult(&stats).Get("/admin/dashboard")
	if err != nil {
		return nil, fmt.Errorf("backend: dashboard: %w", err)
	}
	if resp.IsError() {
		return nil, statusErr("dashboard", resp)
	}
	return &stats, nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	var users []domain.User
	resp, err := c.req(ctx, token).SetResult(&users).Get("/admin/users")
	if err != nil {
		return nil, fmt.Errorf("backend: list users: %w", err)
	}
	if resp.IsError() {
		return nil, statusErr("list users", resp)
	}
	return users, nil
}

// --- Auth ---

// TokenResponse is what /auth/login and /auth/register hand back.
type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var tr TokenResponse
	resp, err := c.req(ctx, "").SetBody(body).SetResult(&tr).Post("/auth/login")
	if err != nil {
		return nil, fmt.Errorf("backend: login: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, domain.ErrUnauthorized
	}
	if resp.IsError() {
		return nil, statusErr("login", resp)
	}
	return &tr, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*TokenResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var tr TokenResponse
	resp, err := c.req(ctx, "").SetBody(body).SetResult(&tr).Post("/auth/register")
	if err != nil {
		return nil, fmt.Errorf("backend: register: %w", err)
	}
	if resp.IsError() {
		return nil, statusErr("register", resp)
	}
	return &tr, nil
}

func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	var u domain.User
	resp, err := c.req(ctx, token).SetResult(&u).Get("/auth/me")
	if err != nil {
		return nil, fmt.Errorf("backend: me: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, domain.ErrUnauthorized
	}
	if resp.IsError() {
		return nil, statusErr("me", resp)
	}
	return &u, nil
}

var (
	_ usecase.ProductGateway = (*Client)(nil)
	_ usecase.CartBackend    = (*Client)(nil)
	_ usecase.OrderBackend   = (*Client)(nil)
)
