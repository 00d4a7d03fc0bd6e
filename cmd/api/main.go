package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/leavedesk/leavedesk-backend-go/internal/config"
	appHTTP "github.com/leavedesk/leavedesk-backend-go/internal/handler/http"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/database"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/jwt"
	"github.com/leavedesk/leavedesk-backend-go/internal/repository/postgresql"
	authService "github.com/leavedesk/leavedesk-backend-go/internal/service/auth"
	leaveService "github.com/leavedesk/leavedesk-backend-go/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		fmt.Println("Error creating schema:", err)
		return
	}

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	authSvc := authService.NewAuthService(transactor, userRepo, JWTService)
	leaveSvc := leaveService.NewLeaveService(transactor, leaveRequestRepo)

	authHandler := appHTTP.NewAuthHandler(JWTService, authSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)

	router := appHTTP.NewRouter(JWTService, authHandler, leaveHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
