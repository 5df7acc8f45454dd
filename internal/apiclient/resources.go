package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"gymease-service/internal/domain/auth"
	"gymease-service/internal/domain/member"
	"gymease-service/internal/domain/product"
	"gymease-service/internal/domain/promo"
	"gymease-service/internal/domain/transaction"
)

// ========== Auth ==========

// Login exchanges credentials for a token and stores it on the session.
func (c *Client) Login(ctx context.Context, sess *Session, username, password string) (*auth.LoginResponse, error) {
	var out auth.LoginResponse
	payload := map[string]string{"username": username, "password": password}
	if err := c.sendJSON(ctx, sess, http.MethodPost, "/auth/token", payload, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("%w: login response without token", ErrUnexpectedShape)
	}
	sess.SetToken(out.Token)
	return &out, nil
}

// Logout revokes the token server side and clears it locally either way.
func (c *Client) Logout(ctx context.Context, sess *Session) error {
	defer sess.Clear()
	return c.sendJSON(ctx, sess, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context, sess *Session) (*auth.User, error) {
	var out auth.User
	if err := c.getJSON(ctx, sess, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ========== Promos ==========

// ListPromos fetches every promo. Filtering is left to the caller so that
// search and status can change without another round trip.
func (c *Client) ListPromos(ctx context.Context, sess *Session) ([]promo.View, error) {
	return listAll[promo.View](ctx, c, sess, "/promos", nil)
}

func (c *Client) ActivePromos(ctx context.Context, sess *Session) ([]promo.View, error) {
	return listAll[promo.View](ctx, c, sess, "/promos/active_promos", nil)
}

func (c *Client) PromoStatistics(ctx context.Context, sess *Session) (*promo.Stats, error) {
	var out promo.Stats
	if err := c.getJSON(ctx, sess, "/promos/statistics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PromoPreview(ctx context.Context, sess *Session, id int64) (*promo.Preview, error) {
	var out promo.Preview
	if err := c.getJSON(ctx, sess, fmt.Sprintf("/promos/%d/preview", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TogglePromo(ctx context.Context, sess *Session, id int64) (*promo.View, error) {
	var out promo.View
	if err := c.sendJSON(ctx, sess, http.MethodPatch, fmt.Sprintf("/promos/%d/toggle", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ========== Packages & Members ==========

func (c *Client) ListPackages(ctx context.Context, sess *Session) ([]product.Package, error) {
	return listAll[product.Package](ctx, c, sess, "/produk", nil)
}

func (c *Client) ListMembers(ctx context.Context, sess *Session, search, status string) ([]member.Member, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if status != "" {
		q.Set("status", status)
	}
	return listAll[member.Member](ctx, c, sess, "/members", q)
}

// ========== Transactions ==========

func (c *Client) GetTransaction(ctx context.Context, sess *Session, code string) (*transaction.Transaction, error) {
	var out transaction.Transaction
	if err := c.getJSON(ctx, sess, "/transaksi-detail/"+url.PathEscape(code), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ConfirmPayment(ctx context.Context, sess *Session, code string) (*transaction.Transaction, error) {
	var out transaction.Transaction
	target := "/transaksi/" + url.PathEscape(code) + "/confirm_payment"
	if err := c.sendJSON(ctx, sess, http.MethodPost, target, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckPayment asks the server to re-read the QR status from the payment gateway.
func (c *Client) CheckPayment(ctx context.Context, sess *Session, code string) (*transaction.Transaction, error) {
	var out transaction.Transaction
	target := "/transaksi/" + url.PathEscape(code) + "/check_payment"
	if err := c.sendJSON(ctx, sess, http.MethodPost, target, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
