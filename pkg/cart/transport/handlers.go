package transport

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	cartmodel "github.com/yutosuda/EC-sub001/pkg/cart/domain/model"
	cartservice "github.com/yutosuda/EC-sub001/pkg/cart/domain/service"
	"github.com/yutosuda/EC-sub001/pkg/event"
	"github.com/yutosuda/EC-sub001/pkg/httputil"
	ordermodel "github.com/yutosuda/EC-sub001/pkg/order/domain/model"
	orderservice "github.com/yutosuda/EC-sub001/pkg/order/domain/service"
	productmodel "github.com/yutosuda/EC-sub001/pkg/product/domain/model"
	productservice "github.com/yutosuda/EC-sub001/pkg/product/domain/service"
)

const (
	sessionHeader = "X-Session-ID"
	userIDHeader  = "X-User-ID"
)

type Handler struct {
	storage    cartmodel.CartStorage
	products   productservice.ProductService
	orders     orderservice.OrderService
	dispatcher event.Dispatcher
}

func NewHandler(storage cartmodel.CartStorage, products productservice.ProductService, orders orderservice.OrderService, dispatcher event.Dispatcher) *Handler {
	return &Handler{storage: storage, products: products, orders: orders, dispatcher: dispatcher}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/cart", h.getCart).Methods(http.MethodGet)
	r.HandleFunc("/cart", h.clearCart).Methods(http.MethodDelete)
	r.HandleFunc("/cart/items", h.addItem).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{productID}", h.updateQuantity).Methods(http.MethodPut)
	r.HandleFunc("/cart/items/{productID}", h.removeItem).Methods(http.MethodDelete)
	r.HandleFunc("/cart/checkout", h.checkout).Methods(http.MethodPost)
}

type cartView struct {
	Items      []cartmodel.LineItem `json:"items"`
	TotalItems int                  `json:"total_items"`
	TotalPrice int64                `json:"total_price"`
}

type cartResponse struct {
	Success bool     `json:"success"`
	Cart    cartView `json:"cart"`
}

type checkoutResponse struct {
	Success bool              `json:"success"`
	Order   *ordermodel.Order `json:"order"`
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type checkoutRequest struct {
	ShippingAddress ordermodel.Address       `json:"shipping_address"`
	BillingAddress  *ordermodel.Address      `json:"billing_address,omitempty"`
	PaymentMethod   ordermodel.PaymentMethod `json:"payment_method"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	respondCart(w, cart)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.sessionCart(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "malformed cart item")
		return
	}

	product, err := h.products.GetProduct(req.ProductID)
	if errors.Cause(err) == productmodel.ErrProductNotFound {
		httputil.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	cart.AddItem(r.Context(), cartmodel.LineItem{
		ProductID:  product.ID,
		Name:       product.Name,
		SKU:        product.SKU,
		UnitPrice:  product.UnitPrice,
		ImageRef:   product.ImageRef,
		Quantity:   req.Quantity,
		StockLimit: product.StockQuantity,
	})
	respondCart(w, cart)
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	productID, ok := pathProductID(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "malformed quantity update")
		return
	}

	cart.UpdateQuantity(r.Context(), productID, req.Quantity)
	respondCart(w, cart)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	productID, ok := pathProductID(w, r)
	if !ok {
		return
	}

	cart.RemoveItem(r.Context(), productID)
	respondCart(w, cart)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.sessionCart(w, r)
	if !ok {
		return
	}

	cart.Clear(r.Context())
	respondCart(w, cart)
}

// checkout turns the cart's line items into an order draft. The cart is
// cleared only after the order is accepted.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	userID, err := uuid.Parse(r.Header.Get(userIDHeader))
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, "missing or malformed user identity")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "malformed checkout request")
		return
	}

	items := cart.Items()
	draftItems := make([]ordermodel.OrderItem, 0, len(items))
	for _, item := range items {
		draftItems = append(draftItems, ordermodel.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}

	order, err := h.orders.PlaceOrder(userID, ordermodel.OrderDraft{
		Items:           draftItems,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		switch errors.Cause(err) {
		case orderservice.ErrOrderIsEmpty, orderservice.ErrInvalidPaymentMethod,
			orderservice.ErrInvalidQuantity, orderservice.ErrNegativePrice:
			httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "checkout failed")
		}
		return
	}

	cart.Clear(r.Context())
	httputil.RespondJSON(w, http.StatusCreated, checkoutResponse{Success: true, Order: order})
}

// sessionCart builds and hydrates the container for the request's session.
func (h *Handler) sessionCart(w http.ResponseWriter, r *http.Request) (cartservice.Cart, bool) {
	session := r.Header.Get(sessionHeader)
	if session == "" {
		httputil.RespondError(w, http.StatusBadRequest, "missing session id")
		return nil, false
	}

	cart := cartservice.NewCart(h.storage, session, h.dispatcher)
	if err := cart.Hydrate(r.Context()); err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "failed to load cart")
		return nil, false
	}
	return cart, true
}

func respondCart(w http.ResponseWriter, cart cartservice.Cart) {
	items := cart.Items()
	if items == nil {
		items = []cartmodel.LineItem{}
	}
	httputil.RespondJSON(w, http.StatusOK, cartResponse{
		Success: true,
		Cart: cartView{
			Items:      items,
			TotalItems: cart.TotalItems(),
			TotalPrice: cart.TotalPrice(),
		},
	})
}

func pathProductID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	productID, err := uuid.Parse(mux.Vars(r)["productID"])
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "malformed product id")
		return uuid.Nil, false
	}
	return productID, true
}
