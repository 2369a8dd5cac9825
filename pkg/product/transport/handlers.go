package transport

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/yutosuda/EC-sub001/pkg/httputil"
	"github.com/yutosuda/EC-sub001/pkg/product/domain/model"
	"github.com/yutosuda/EC-sub001/pkg/product/domain/service"
)

type Handler struct {
	products service.ProductService
}

func NewHandler(products service.ProductService) *Handler {
	return &Handler{products: products}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{productID}", h.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/categories", h.listCategories).Methods(http.MethodGet)
}

type productsResponse struct {
	Success  bool            `json:"success"`
	Products []model.Product `json:"products"`
}

type productResponse struct {
	Success bool           `json:"success"`
	Product *model.Product `json:"product"`
}

type categoriesResponse struct {
	Success    bool             `json:"success"`
	Categories []model.Category `json:"categories"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "malformed category id")
			return
		}
		categoryID = &id
	}

	products, err := h.products.ListProducts(categoryID)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, productsResponse{Success: true, Products: products})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(mux.Vars(r)["productID"])
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "malformed product id")
		return
	}

	product, err := h.products.GetProduct(productID)
	if err == model.ErrProductNotFound {
		httputil.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "failed to load product")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, productResponse{Success: true, Product: product})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.ListCategories()
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, categoriesResponse{Success: true, Categories: categories})
}
