package transport

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	cartmodel "github.com/yutosuda/EC-sub001/pkg/cart/domain/model"
	carttransport "github.com/yutosuda/EC-sub001/pkg/cart/transport"
	"github.com/yutosuda/EC-sub001/pkg/event"
	orderservice "github.com/yutosuda/EC-sub001/pkg/order/domain/service"
	ordertransport "github.com/yutosuda/EC-sub001/pkg/order/transport"
	productservice "github.com/yutosuda/EC-sub001/pkg/product/domain/service"
	producttransport "github.com/yutosuda/EC-sub001/pkg/product/transport"
	userservice "github.com/yutosuda/EC-sub001/pkg/user/domain/service"
	usertransport "github.com/yutosuda/EC-sub001/pkg/user/transport"
)

type Dependencies struct {
	CartStorage cartmodel.CartStorage
	Products    productservice.ProductService
	Orders      orderservice.OrderService
	Users       userservice.UserService
	Dispatcher  event.Dispatcher
}

func NewRouter(deps Dependencies) http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	carttransport.NewHandler(deps.CartStorage, deps.Products, deps.Orders, deps.Dispatcher).Register(api)
	ordertransport.NewHandler(deps.Orders).Register(api)
	producttransport.NewHandler(deps.Products).Register(api)
	usertransport.NewHandler(deps.Users).Register(api)

	return logMiddleware(r)
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
