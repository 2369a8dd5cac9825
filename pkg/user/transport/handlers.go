package transport

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/yutosuda/EC-sub001/pkg/httputil"
	"github.com/yutosuda/EC-sub001/pkg/user/domain/model"
	"github.com/yutosuda/EC-sub001/pkg/user/domain/service"
)

type Handler struct {
	users service.UserService
}

func NewHandler(users service.UserService) *Handler {
	return &Handler{users: users}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/users", h.registerUser).Methods(http.MethodPost)
	r.HandleFunc("/users/{userID}", h.getUser).Methods(http.MethodGet)
}

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type userResponse struct {
	Success bool        `json:"success"`
	User    *model.User `json:"user"`
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "malformed registration request")
		return
	}

	user, err := h.users.RegisterUser(req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		switch errors.Cause(err) {
		case model.ErrEmailTaken:
			httputil.RespondError(w, http.StatusConflict, err.Error())
		case service.ErrPasswordTooShort:
			httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, userResponse{Success: true, User: user})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(mux.Vars(r)["userID"])
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "malformed user id")
		return
	}

	user, err := h.users.GetUser(userID)
	if errors.Cause(err) == model.ErrUserNotFound {
		httputil.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, userResponse{Success: true, User: user})
}
