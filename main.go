package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/AquaIndex/HMPI-Backend/internal/alerts"
	"github.com/AquaIndex/HMPI-Backend/internal/auth"
	"github.com/AquaIndex/HMPI-Backend/internal/cache"
	"github.com/AquaIndex/HMPI-Backend/internal/db"
	"github.com/AquaIndex/HMPI-Backend/internal/middleware"
	"github.com/AquaIndex/HMPI-Backend/internal/samples"
	"github.com/AquaIndex/HMPI-Backend/internal/standards"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()
	cache.Init()
	alerts.Init()
	defer alerts.Close()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	auth.Init()
	standards.Init()
	samples.Init()

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes())
	r.Mount("/standards", standards.SetupRoutes())
	r.Mount("/samples", samples.SetupRoutes())

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
