package httpapi

import "github.com/gorilla/mux"

// Routes builds the router. Authenticated routes go through
// requireAuth.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", h.health).Methods("GET")

	api := r.PathPrefix("/api/auth").Subrouter()
	api.HandleFunc("/register", h.register).Methods("POST")
	api.HandleFunc("/login", h.login).Methods("POST")
	api.HandleFunc("/logout", h.requireAuth(h.logout)).Methods("GET")
	api.HandleFunc("/me", h.requireAuth(h.me)).Methods("GET")
	api.HandleFunc("/updatedetails", h.requireAuth(h.updateDetails)).Methods("PUT")
	api.HandleFunc("/updatepassword", h.requireAuth(h.updatePassword)).Methods("PUT")
	api.HandleFunc("/forgotpassword", h.forgotPassword).Methods("POST")
	api.HandleFunc("/resetpassword/{resettoken}", h.resetPassword).Methods("PUT")
	return r
}
