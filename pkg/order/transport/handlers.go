package transport

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/yutosuda/EC-sub001/pkg/httputil"
	"github.com/yutosuda/EC-sub001/pkg/order/domain/model"
	"github.com/yutosuda/EC-sub001/pkg/order/domain/service"
)

// The current user is identified by the X-User-ID header; authentication
// itself is owned by the upstream gateway.
const userIDHeader = "X-User-ID"

type Handler struct {
	orders service.OrderService
}

func NewHandler(orders service.OrderService) *Handler {
	return &Handler{orders: orders}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders", h.createOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{orderID}", h.getOrder).Methods(http.MethodGet)
	r.HandleFunc("/orders/{orderID}/cancel", h.cancelOrder).Methods(http.MethodPut)
}

type ordersResponse struct {
	Success bool          `json:"success"`
	Orders  []model.Order `json:"orders"`
}

type orderResponse struct {
	Success bool         `json:"success"`
	Order   *model.Order `json:"order"`
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListOrders(userID)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, ordersResponse{Success: true, Orders: orders})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(orderID)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, orderResponse{Success: true, Order: order})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var draft model.OrderDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "malformed order draft")
		return
	}

	order, err := h.orders.PlaceOrder(userID, draft)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, orderResponse{Success: true, Order: order})
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.CancelOrder(orderID)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, orderResponse{Success: true, Order: order})
}

func respondOrderError(w http.ResponseWriter, err error) {
	switch errors.Cause(err) {
	case model.ErrOrderNotFound:
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case model.ErrOrderNotCancellable,
		service.ErrOrderIsEmpty,
		service.ErrInvalidQuantity,
		service.ErrNegativePrice,
		service.ErrInvalidPaymentMethod:
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(r.Header.Get(userIDHeader))
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, "missing or malformed user identity")
		return uuid.Nil, false
	}
	return userID, true
}

func pathOrderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(mux.Vars(r)["orderID"])
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "malformed order id")
		return uuid.Nil, false
	}
	return orderID, true
}
