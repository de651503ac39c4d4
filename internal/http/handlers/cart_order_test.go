package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymousCartAndCheckoutPromptSignIn(t *testing.T) {
	h := newHarness(t)

	cart := h.get("/cart", "")
	require.Equal(t, http.StatusOK, cart.StatusCode)
	assert.Contains(t, body(t, cart), "Please sign in to view your cart")

	checkout := h.get("/checkout", "")
	require.Equal(t, http.StatusOK, checkout.StatusCode)
	assert.Contains(t, body(t, checkout), "Please sign in to checkout")

	add := h.post("/cart", "", url.Values{"productId": {"milk-001"}, "qty": {"1"}})
	assert.Equal(t, http.StatusFound, add.StatusCode)
	assert.Equal(t, "/auth", add.Header.Get("Location"))
}

func TestCartAddAndAdjust(t *testing.T) {
	h := newHarness(t)
	sid := h.signIn("alice@gmart.test")

	resp := h.post("/cart", sid, url.Values{"productId": {"milk-001"}, "qty": {"2"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	page := body(t, h.get("/cart", sid))
	assert.Contains(t, page, "Whole Milk (2 L)")
	assert.Contains(t, page, "Total: $9.00")

	lines, err := h.st.Carts.Lines(context.Background(), "u-alice")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	lineID := lines[0].ID

	inc := h.post("/cart/"+lineID+"/quantity", sid, url.Values{"op": {"inc"}})
	require.Equal(t, http.StatusFound, inc.StatusCode)
	assert.Contains(t, body(t, h.get("/cart", sid)), "Total: $13.50")

	set := h.post("/cart/"+lineID+"/quantity", sid, url.Values{"qty": {"1"}})
	require.Equal(t, http.StatusFound, set.StatusCode)
	assert.Contains(t, body(t, h.get("/cart", sid)), "Total: $4.50")

	del := h.post("/cart/"+lineID+"/delete", sid, nil)
	require.Equal(t, http.StatusFound, del.StatusCode)
	assert.Contains(t, body(t, h.get("/cart", sid)), "Your cart is empty")
}

func TestCartOutOfStockShowsMessage(t *testing.T) {
	h := newHarness(t)
	sid := h.signIn("alice@gmart.test")

	resp := h.post("/cart", sid, url.Values{"productId": {"eggs-001"}, "qty": {"1"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, strings.ToLower(body(t, resp)), "out of stock")
}

func TestCheckoutPlacesOrderAndConfirms(t *testing.T) {
	h := newHarness(t)
	sid := h.signIn("alice@gmart.test")

	require.Equal(t, http.StatusFound, h.post("/cart", sid, url.Values{"productId": {"milk-001"}, "qty": {"2"}}).StatusCode)

	form := h.get("/checkout", sid)
	require.Equal(t, http.StatusOK, form.StatusCode)
	page := body(t, form)
	assert.Contains(t, page, "Cash on Delivery")
	assert.Contains(t, page, `value="alice@gmart.test"`)

	resp := h.post("/orders", sid, url.Values{
		"full_name":      {"Alice Doe"},
		"email":          {"alice@gmart.test"},
		"phone":          {"+1 555 0100"},
		"address":        {"1 Main St"},
		"city":           {"Springfield"},
		"zip":            {"12345"},
		"payment_method": {"cod"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode, body(t, resp))
	loc := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(loc, "/order-confirmation/"), loc)
	orderID := strings.TrimPrefix(loc, "/order-confirmation/")

	conf := h.get(loc, sid)
	require.Equal(t, http.StatusOK, conf.StatusCode)
	confPage := body(t, conf)
	assert.Contains(t, confPage, orderID)
	assert.Contains(t, confPage, "Total: $9.00")
	assert.Contains(t, confPage, "1 Main St, Springfield, 12345")
	assert.Contains(t, confPage, "Cash on Delivery")

	lines, err := h.st.Carts.Lines(context.Background(), "u-alice")
	require.NoError(t, err)
	assert.Empty(t, lines)

	assert.Contains(t, body(t, h.get("/orders", sid)), orderID)

	// another shopper cannot see it
	other := h.get(loc, h.signIn("bob@gmart.test"))
	assert.Equal(t, http.StatusNotFound, other.StatusCode)
	assert.NotContains(t, body(t, other), "1 Main St")
}

func TestOrderTotalsIgnoreClientInput(t *testing.T) {
	h := newHarness(t)
	sid := h.signIn("alice@gmart.test")
	require.Equal(t, http.StatusFound, h.post("/cart", sid, url.Values{"productId": {"milk-001"}, "qty": {"2"}}).StatusCode)

	resp := h.post("/orders", sid, url.Values{
		"full_name": {"Alice"}, "email": {"alice@gmart.test"}, "phone": {"5550100"},
		"address": {"1 Main St"}, "city": {"Springfield"}, "zip": {"12345"},
		"payment_method": {"card"}, "total": {"0.01"}, "price": {"0.01"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	orderID := strings.TrimPrefix(resp.Header.Get("Location"), "/order-confirmation/")

	o, items, err := h.st.Orders.GetOrder(context.Background(), "u-alice", orderID)
	require.NoError(t, err)
	assert.Equal(t, "9.00", o.TotalAmount.StringFixed(2))
	require.Len(t, items, 1)
	assert.Equal(t, "4.50", items[0].Price.StringFixed(2))
}

func TestCheckoutValidationKeepsCart(t *testing.T) {
	h := newHarness(t)
	sid := h.signIn("alice@gmart.test")
	require.Equal(t, http.StatusFound, h.post("/cart", sid, url.Values{"productId": {"milk-001"}, "qty": {"1"}}).StatusCode)

	resp := h.post("/orders", sid, url.Values{
		"full_name": {"Alice"}, "email": {"not-an-email"}, "phone": {"5550100"},
		"address": {"1 Main St"}, "city": {"Springfield"}, "zip": {"12345"},
		"payment_method": {"card"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	page := body(t, resp)
	assert.Contains(t, page, `value="1 Main St"`)

	lines, err := h.st.Carts.Lines(context.Background(), "u-alice")
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	bad := h.post("/orders", sid, url.Values{
		"full_name": {"Alice"}, "email": {"alice@gmart.test"}, "phone": {"5550100"},
		"address": {"1 Main St"}, "city": {"Springfield"}, "zip": {"12345"},
		"payment_method": {"bitcoin"},
	})
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestCheckoutEmptyCart(t *testing.T) {
	h := newHarness(t)
	sid := h.signIn("bob@gmart.test")

	assert.Contains(t, body(t, h.get("/checkout", sid)), "Your cart is empty")

	resp := h.post("/orders", sid, url.Values{
		"full_name": {"Bob"}, "email": {"bob@gmart.test"}, "phone": {"5550100"},
		"address": {"2 Main St"}, "city": {"Springfield"}, "zip": {"12345"},
		"payment_method": {"paypal"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	blank := h.post("/orders", sid, url.Values{})
	assert.Equal(t, http.StatusBadRequest, blank.StatusCode)
	page := body(t, blank)
	assert.Contains(t, page, "Your cart is empty")
	assert.NotContains(t, page, "Full name is required")
}

func TestCartAPI(t *testing.T) {
	h := newHarness(t)

	anon := h.get("/api/v1/cart", "")
	assert.Equal(t, http.StatusUnauthorized, anon.StatusCode)

	sid := h.signIn("alice@gmart.test")
	require.Equal(t, http.StatusFound, h.post("/cart", sid, url.Values{"productId": {"apple-001"}, "qty": {"3"}}).StatusCode)
	resp := h.get("/api/v1/cart", sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	js := body(t, resp)
	assert.Contains(t, js, `"count":3`)
	assert.Contains(t, js, `"product_id":"apple-001"`)
}
